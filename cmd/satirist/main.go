package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var cfgPath string
	var root = &cobra.Command{
		Use:          "satirist",
		Short:        "Satirical news pipeline and content API",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is ./config/config.*)")

	root.AddCommand(serveCMD(&cfgPath), generateCMD(&cfgPath), migrateCMD(&cfgPath))
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
