package report

import (
	"context"
	"encoding/json"
)

// Loader calcula el valor de un reporte cuando no está en caché.
type Loader func(context.Context) (any, error)

// Assign ejecuta el loader y copia el resultado en dest con la misma forma que tendría al salir de la caché.
func Assign(ctx context.Context, dest any, loader Loader) error {
	v, err := loader(ctx)
	if err != nil {
		return err
	}
	return Decode(v, dest)
}

// Decode copia value en dest pasando por JSON, igual que un valor leído de Redis.
func Decode(value, dest any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}
