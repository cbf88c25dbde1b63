package main

import (
	"ordermgmt/internal/app"
	"ordermgmt/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
