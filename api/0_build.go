package api

import (
	"context"

	"github.com/fulldump/box"

	"github.com/fulldump/gridview/api/apigridv1"
	"github.com/fulldump/gridview/service"
)

func Build(s service.Servicer, version string) *box.B {

	b := box.NewBox()

	v1 := b.Resource("/v1").
		WithInterceptors(
			injectServicer(s),
		)
	apigridv1.BuildV1Grid(v1, s)

	b.Resource("/version").
		WithActions(
			box.Get(func(ctx context.Context) string {
				return version
			}),
		)

	return b
}

func injectServicer(s service.Servicer) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			next(apigridv1.SetServicer(ctx, s))
		}
	}
}
