package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fulldump/goconfig"

	"github.com/fulldump/gridview/bootstrap"
	"github.com/fulldump/gridview/configuration"
)

var VERSION = "dev"

var banner = `
             _     _       _
   __ _ _ __(_) __| |_   _(_) _____      __
  / _` + "`" + ` | '__| |/ _` + "`" + ` \ \ / / |/ _ \ \ /\ / /
 | (_| | |  | | (_| |\ V /| |  __/\ V  V /
  \__, |_|  |_|\__,_| \_/ |_|\___| \_/\_/
  |___/                     version ` + VERSION + `
`

func main() {

	c := configuration.Default()
	goconfig.Read(&c)

	if c.Version {
		fmt.Println("Version:", VERSION)
		return
	}

	if c.ShowBanner {
		fmt.Println(banner)
	}

	if c.ShowConfig {
		e := json.NewEncoder(os.Stdout)
		e.SetIndent("", "    ")
		e.Encode(c)
	}

	bootstrap.VERSION = VERSION
	start, stop, err := bootstrap.Bootstrap(&c)
	if err != nil {
		fmt.Println("ERROR:", err.Error())
		os.Exit(-1)
	}

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-signalChan
		fmt.Println("Signal received", sig.String())
		stop()
	}()

	err = start()
	if err != nil {
		fmt.Println("ERROR:", err.Error())
		os.Exit(-1)
	}
}
