// Package dimensions resolves image sizes from local files, raw bytes, data
// URLs and HTTP URLs without decoding pixel data.
//
// JPEG, PNG and GIF are decoded with the standard library; WebP, BMP and TIFF
// with golang.org/x/image.
//
// URL results are cached by URL in a Cache. The SQLite implementation keeps a
// dimension_cache table in $IMAGE_CACHE_DIR/ImageTokenDimensionCache.sqlite
// and is never expired; delete an entry to force a refetch.
//
//	cache, err := dimensions.NewSQLiteCache(dimensions.SQLiteCacheConfig{Path: path})
//	if err != nil {
//		return err
//	}
//	defer cache.Close()
//
//	reader := dimensions.NewReader(dimensions.WithCache(cache))
//	dims, err := reader.FromURL(ctx, "https://example.com/cat.jpg")
package dimensions
