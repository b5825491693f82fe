package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/srinathmkce/imagetoken/pkg/cli"
	"github.com/srinathmkce/imagetoken/pkg/dimensions"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and edit the URL dimension cache",
	Long: `Inspect and edit the cache that maps image URLs to their dimensions.

Entries never expire. Delete an entry when the image behind a URL changes.`,
}

var cacheGetCmd = &cobra.Command{
	Use:   "get URL",
	Short: "Show the cached dimensions of a URL",
	Args:  cobra.ExactArgs(1),
	RunE:  runCacheGet,
}

var cachePutCmd = &cobra.Command{
	Use:   "put URL WIDTH HEIGHT",
	Short: "Store dimensions for a URL",
	Args:  cobra.ExactArgs(3),
	RunE:  runCachePut,
}

var cacheDeleteCmd = &cobra.Command{
	Use:   "delete URL",
	Short: "Remove a URL from the cache",
	Args:  cobra.ExactArgs(1),
	RunE:  runCacheDelete,
}

var cacheCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of cached URLs",
	Args:  cobra.NoArgs,
	RunE:  runCacheCount,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheGetCmd, cachePutCmd, cacheDeleteCmd, cacheCountCmd)
}

// cacheEntry is the output of cache get and put.
type cacheEntry struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (e cacheEntry) Header() []string { return []string{"URL", "WIDTH", "HEIGHT"} }

func (e cacheEntry) Rows() [][]string {
	return [][]string{{e.URL, strconv.Itoa(e.Width), strconv.Itoa(e.Height)}}
}

func openCache() (dimensions.Cache, error) {
	cfg := currentConfig().Cache
	if !cfg.Enabled {
		return nil, cli.NewConfigError("cache.enabled", "the dimension cache is disabled")
	}
	return dimensions.OpenCache(cfg)
}

func runCacheGet(cmd *cobra.Command, args []string) error {
	cache, err := openCache()
	if err != nil {
		return err
	}
	defer cache.Close()

	dims, ok, err := cache.Get(commandContext(cmd), args[0])
	if err != nil {
		return cli.NewCommandError("cache get", err)
	}
	if !ok {
		return cli.NewCommandError("cache get", fmt.Errorf("%s is not cached", args[0]))
	}
	return printResult(cmd, cacheEntry{URL: args[0], Width: dims.Width, Height: dims.Height})
}

func runCachePut(cmd *cobra.Command, args []string) error {
	width, err := strconv.Atoi(args[1])
	if err != nil || width <= 0 {
		return cli.NewConfigError("WIDTH", fmt.Sprintf("must be a positive integer, got %q", args[1]))
	}
	height, err := strconv.Atoi(args[2])
	if err != nil || height <= 0 {
		return cli.NewConfigError("HEIGHT", fmt.Sprintf("must be a positive integer, got %q", args[2]))
	}
	if !dimensions.IsURL(args[0]) {
		return cli.NewConfigError("URL", fmt.Sprintf("%q is not an http(s) URL", args[0]))
	}

	cache, err := openCache()
	if err != nil {
		return err
	}
	defer cache.Close()

	if err := cache.Put(commandContext(cmd), args[0], dimensions.Dimensions{Width: width, Height: height}); err != nil {
		return cli.NewCommandError("cache put", err)
	}
	return printResult(cmd, cacheEntry{URL: args[0], Width: width, Height: height})
}

func runCacheDelete(cmd *cobra.Command, args []string) error {
	cache, err := openCache()
	if err != nil {
		return err
	}
	defer cache.Close()

	if err := cache.Delete(commandContext(cmd), args[0]); err != nil {
		return cli.NewCommandError("cache delete", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %s\n", args[0])
	return nil
}

func runCacheCount(cmd *cobra.Command, args []string) error {
	cache, err := openCache()
	if err != nil {
		return err
	}
	defer cache.Close()

	n, err := cache.Len(commandContext(cmd))
	if err != nil {
		return cli.NewCommandError("cache count", err)
	}
	return printResult(cmd, map[string]int{"entries": n})
}
