// Package images proxies TMDB poster and profile images through a local disk
// cache. Posters use the w500 rendition and profiles w185.
//
// A download lands in a temp file that is renamed into place, and concurrent
// requests for one file share a single download. Once the bytes exist the
// store's cached flag for that path is set. When a download fails the caller
// is redirected to the CDN. Nothing is evicted.
package images
