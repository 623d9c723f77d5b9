package report

import "context"

// Cache caché de lectura para reportes. Las claves llevan versión; al invalidar cambia la versión
// y las entradas anteriores expiran solas por TTL.
type Cache interface {
	BuildKey(ctx context.Context, parts ...string) (string, error)
	FetchJSON(ctx context.Context, key string, dest any, loader Loader) error
}
