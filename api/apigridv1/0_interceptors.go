package apigridv1

import (
	"context"

	"github.com/fulldump/gridview/service"
)

const ContextServicerKey = "8b1c6f2a-9f35-4e63-bb1e-3d5a1c55f9c4"

func SetServicer(ctx context.Context, s service.Servicer) context.Context {
	return context.WithValue(ctx, ContextServicerKey, s)
}

func GetServicer(ctx context.Context) service.Servicer {
	return ctx.Value(ContextServicerKey).(service.Servicer)
}
