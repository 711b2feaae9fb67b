package main

import (
	"fmt"

	"github.com/spf13/cobra"

	webserver "github.com/web-widget/web-server"
)

func routesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the compiled route table in match order",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := webserver.New(demoManifest(), webserver.Config{})
			if err != nil {
				return err
			}

			table := app.Table()
			if mws := table.Middlewares(); len(mws) > 0 {
				fmt.Println("Middlewares:")
				for _, mw := range mws {
					fmt.Printf("  %-30s %s\n", mw.Pathname, mw.Name)
				}
				fmt.Println()
			}

			fmt.Println("Routes:")
			for _, route := range table.Routes() {
				fmt.Printf("  %-30s %s\n", route.Pathname, route.Name)
			}
			return nil
		},
	}
}
