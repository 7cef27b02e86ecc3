package main

import (
	"fmt"
	"net"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/smb3go/smb3"
	"github.com/smb3go/smb3/internal/clientlog"
	"github.com/smb3go/smb3/pkg/smb3config"
)

func loadConfig(cmd *cobra.Command) (*smb3config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := smb3config.Load(configPath)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.BindPFlag("host", cmd.Flags().Lookup("host"))
	v.BindPFlag("share", cmd.Flags().Lookup("share"))
	v.BindPFlag("port", cmd.Flags().Lookup("port"))
	v.BindPFlag("username", cmd.Flags().Lookup("username"))
	v.BindPFlag("domain", cmd.Flags().Lookup("domain"))

	if h := v.GetString("host"); h != "" {
		cfg.Host = h
	}
	if s := v.GetString("share"); s != "" {
		cfg.Share = s
	}
	if p := v.GetInt("port"); p != 0 && cmd.Flags().Changed("port") {
		cfg.Port = p
	}
	if u := v.GetString("username"); u != "" {
		cfg.Username = u
	}
	if d := v.GetString("domain"); d != "" {
		cfg.Domain = d
	}

	if cfg.Password == "" {
		prompt := promptui.Prompt{Label: "Password", Mask: '*'}
		pw, err := prompt.Run()
		if err != nil {
			return nil, fmt.Errorf("read password: %w", err)
		}
		cfg.Password = pw
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level, _ = cmd.Flags().GetString("log-level")
	}
	clientlog.SetLevel(cfg.Logging.Level)
	clientlog.SetFormat(cfg.Logging.Format)
	return cfg, nil
}

func dial(cfg *smb3config.Config) (*smb3.Client, net.Conn, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	auth := newNTLMEngine(cfg.Domain, cfg.Username, cfg.Password)
	client, err := smb3.Dial(conn, auth, cfg.Share)
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("connect to %s: %w", cfg.Share, err)
	}
	return client, conn, nil
}
