package bootstrap

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"

	"github.com/fulldump/box"

	"github.com/fulldump/gridview/api"
	"github.com/fulldump/gridview/colconf"
	"github.com/fulldump/gridview/configuration"
	"github.com/fulldump/gridview/dataset"
	"github.com/fulldump/gridview/service"
)

var VERSION = "dev"

// Bootstrap wires datasets, the column configuration store and the HTTP api,
// returning start and stop functions.
func Bootstrap(c *configuration.Configuration) (start, stop func() error, err error) {

	datasets := dataset.NewStore(&dataset.Config{
		Dir: c.Dir,
	})

	configs, err := colconf.OpenStore(c.ConfigFile)
	if err != nil {
		return nil, nil, fmt.Errorf("open config store: %w", err)
	}

	s := service.NewService(datasets, configs)

	b := api.Build(s, VERSION)
	b.WithInterceptors(
		api.AccessLog(log.New(os.Stdout, "ACCESS: ", log.Lshortfile)),
		api.InterceptorUnavailable(datasets),
		api.RecoverFromPanic,
		api.PrettyErrorInterceptor,
	)

	server := &http.Server{
		Addr:    c.HttpAddr,
		Handler: box.Box2Http(b),
	}

	start = func() error {
		ln, err := net.Listen("tcp", c.HttpAddr)
		if err != nil {
			return fmt.Errorf("listen on %s: %w", c.HttpAddr, err)
		}
		log.Println("listening on", c.HttpAddr)

		go datasets.Start()

		err = server.Serve(ln)
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}

	stop = func() error {
		datasets.Stop()
		configs.Close()
		return server.Shutdown(context.Background())
	}

	return start, stop, nil
}
