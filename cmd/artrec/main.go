// Command artrec 基于文章向量为用户生成推荐。
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rushteam/artrec/config"
	"github.com/rushteam/artrec/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "artrec",
		Short:         "Content-based article recommendations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "Path to YAML config (default $"+config.ConfigPathEnvVar+")")
	rootCmd.PersistentFlags().String("env-file", "", "Load environment variables from this file before reading config")

	rootCmd.AddCommand(
		generateCmd(),
		recommendCmd(),
		similarCmd(),
		statsCmd(),
	)
	return rootCmd
}

// loadSettings 读取 .env、配置文件与环境变量，并初始化日志。
func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	path, _ := cmd.Flags().GetString("config")
	s, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	logging.Init(logging.Config{Level: s.Logging.Level, Format: s.Logging.Format})
	return s, nil
}
