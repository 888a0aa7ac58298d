// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"net/url"
	"os"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/ava-labs/hyperdex/utils"
)

// Panels of the pre-built dashboard.
var panels = []string{
	"sum(increase(dispatch_committed[5s])/5)",
	"sum by (category) (increase(dispatch_rejected[5s])/5)",
	"emergency_safe_mode",
	"emergency_hot_path_open",
	"increase(pebble_batch_keys[5s])/5",
}

type PrometheusStaticConfig struct {
	Targets []string `yaml:"targets"`
}

type PrometheusScrapeConfig struct {
	JobName       string                    `yaml:"job_name"`
	StaticConfigs []*PrometheusStaticConfig `yaml:"static_configs"`
	MetricsPath   string                    `yaml:"metrics_path"`
}

type PrometheusConfig struct {
	Global struct {
		ScrapeInterval     string `yaml:"scrape_interval"`
		EvaluationInterval string `yaml:"evaluation_interval"`
	} `yaml:"global"`
	ScrapeConfigs []*PrometheusScrapeConfig `yaml:"scrape_configs"`
}

func newPrometheusConfig(endpoints []string) *PrometheusConfig {
	var c PrometheusConfig
	c.Global.ScrapeInterval = "1s"
	c.Global.EvaluationInterval = "1s"
	c.ScrapeConfigs = []*PrometheusScrapeConfig{
		{
			JobName: "hyperdex",
			StaticConfigs: []*PrometheusStaticConfig{
				{Targets: endpoints},
			},
			MetricsPath: baseURL + "/" + metricsBase,
		},
	}
	return &c
}

// dashboardURL encodes [panels] by hand because prometheus skips panels that
// are not numerically sorted.
func dashboardURL(baseURI string, panels []string) string {
	dashboard := baseURI + "/graph"
	for i, panel := range panels {
		appendChar := "&"
		if i == 0 {
			appendChar = "?"
		}
		dashboard = fmt.Sprintf("%s%sg%d.expr=%s&g%d.tab=0&g%d.step_input=1&g%d.range_input=5m", dashboard, appendChar, i, url.QueryEscape(panel), i, i, i)
	}
	return dashboard
}

var prometheusCmd = &cobra.Command{
	Use:   "prometheus [api uri...]",
	Short: "Write a prometheus scrape config for api servers",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := cmd.Flags().GetString("out")
		if err != nil {
			return err
		}
		prometheusURI, err := cmd.Flags().GetString("prometheus-uri")
		if err != nil {
			return err
		}
		open, err := cmd.Flags().GetBool("open")
		if err != nil {
			return err
		}

		endpoints := make([]string, len(args))
		for i, uri := range args {
			host, err := utils.GetHost(uri)
			if err != nil {
				return err
			}
			port, err := utils.GetPort(uri)
			if err != nil {
				return err
			}
			endpoints[i] = fmt.Sprintf("%s:%s", host, port)
		}
		yamlData, err := yaml.Marshal(newPrometheusConfig(endpoints))
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, yamlData, fsModeWrite); err != nil {
			return err
		}

		dashboard := dashboardURL(prometheusURI, panels)
		if open {
			utils.Outf("{{cyan}}opening dashboard{{/}}\n")
			return browser.OpenURL(dashboard)
		}
		utils.Outf("{{orange}}pre-built dashboard:{{/}} %s\n", dashboard)
		utils.Outf("{{green}}prometheus cmd:{{/}} prometheus --config.file=%s\n", out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(prometheusCmd)
	prometheusCmd.Flags().String("out", "prometheus.yaml", "Output file")
	prometheusCmd.Flags().String("prometheus-uri", "http://localhost:9090", "Prometheus web UI")
	prometheusCmd.Flags().Bool("open", false, "Open the dashboard in a browser")
}
