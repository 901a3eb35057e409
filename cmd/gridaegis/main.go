// file: cmd/gridaegis/main.go

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "v0.3.0"

var configPath string

var rootCmd = &cobra.Command{
	Use:           "gridaegis",
	Short:         "GridAegis 表格数据网关",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "配置文件路径")
	rootCmd.AddCommand(serveCmd, checkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
