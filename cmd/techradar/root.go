package main

import (
	"github.com/spf13/cobra"

	"github.com/iWorld-y/tech_radar/pkg/config"
	"github.com/iWorld-y/tech_radar/pkg/logger"
)

type options struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "techradar",
		Short:         "Count companies mentioned in news about critical and emerging technologies",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "configs/config.yaml", "config file path")

	cmd.AddCommand(
		newAnalyzeCmd(opts),
		newCollectionsCmd(opts),
		newKeyCmd(),
		newParseCmd(),
		newTechnologiesCmd(opts),
	)
	return cmd
}

// load 读取配置并初始化日志
func (o *options) load() (*config.Config, error) {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return nil, err
	}
	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		return nil, err
	}
	return cfg, nil
}
