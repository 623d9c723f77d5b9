package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/report"
)

const versionKey = "reports:version"

var (
	_ report.Cache               = (*ReportCache)(nil)
	_ inventory.CacheInvalidator = (*ReportCache)(nil)
)

// ReportCache caché read-through de reportes sobre Redis con claves versionadas.
// Bump cambia la versión y deja huérfanas las claves anteriores hasta que expiren.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReportCache construye la caché con el TTL de cada entrada.
func NewReportCache(client *redis.Client, ttl time.Duration) *ReportCache {
	return &ReportCache{client: client, ttl: ttl}
}

// Version devuelve la versión vigente, inicializándola en 1.
func (c *ReportCache) Version(ctx context.Context) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		// SETNX evita pisar un Bump concurrente.
		if err := c.client.SetNX(ctx, versionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return c.client.Get(ctx, versionKey).Int64()
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// BuildKey arma la clave con la versión vigente al final.
func (c *ReportCache) BuildKey(ctx context.Context, parts ...string) (string, error) {
	joined := strings.Join(parts, ":")
	if c == nil || c.client == nil {
		return joined, nil
	}
	ver, err := c.Version(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:v%d", joined, ver), nil
}

// FetchJSON lee la clave; si no existe ejecuta loader, guarda el resultado con TTL y lo decodifica en dest.
func (c *ReportCache) FetchJSON(ctx context.Context, key string, dest any, loader report.Loader) error {
	if loader == nil {
		return errors.New("cache: loader requerido")
	}
	if c == nil || c.client == nil {
		return report.Assign(ctx, dest, loader)
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		return json.Unmarshal(payload, dest)
	}
	if !errors.Is(err, redis.Nil) {
		return err
	}
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// Bump invalida todas las entradas incrementando la versión.
func (c *ReportCache) Bump(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, versionKey).Err()
}
