package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/km-arc/go-autowire/app"
	kernel "github.com/km-arc/go-autowire/framework/app"
	"github.com/km-arc/go-autowire/framework/config"
)

// CLI is the root command configuration with subcommands.
type CLI struct {
	Env       []string `kong:"short='e',default='.env',help='Env files to load'"`
	CacheFile string   `kong:"name='cache-file',help='Parameter cache file (overrides AUTOWIRE_CACHE_FILE)'"`
	LogLevel  string   `kong:"short='l',help='Log level: debug, info, warn or error (overrides LOG_LEVEL)'"`

	Serve  ServeCmd  `kong:"cmd,default='1',help='Boot the application and serve HTTP (default)'"`
	Warmup WarmupCmd `kong:"cmd,help='Resolve every auto-wired type and persist the parameter cache'"`
	Cache  CacheCmd  `kong:"cmd,help='Print the constructor parameter cache'"`
}

// ServeCmd boots the application and starts the HTTP server.
type ServeCmd struct{}

func (c *ServeCmd) Run(cli *CLI) error {
	application, err := boot(cli)
	if err != nil {
		return err
	}
	if err := app.Routes(application.Container, application.Router()); err != nil {
		return err
	}
	return application.Run()
}

// WarmupCmd resolves every catalog type once.
type WarmupCmd struct{}

func (c *WarmupCmd) Run(cli *CLI) error {
	application, err := boot(cli)
	if err != nil {
		return err
	}
	n, err := application.WarmUp()
	if err != nil {
		return err
	}
	fmt.Printf("resolved %d types\n", n)
	return nil
}

// CacheCmd lists what the parameter cache holds. It resolves nothing beyond
// boot, so a cold cache prints only what boot itself warmed.
type CacheCmd struct{}

func (c *CacheCmd) Run(cli *CLI) error {
	application, err := boot(cli)
	if err != nil {
		return err
	}
	factory := application.Autowire()
	if factory.CacheFile() == "" {
		fmt.Println("no cache file configured")
	}
	for _, entry := range factory.Cached() {
		fmt.Printf("%s: [%s]\n", entry.Type, strings.Join(entry.Dependencies, ", "))
	}
	return nil
}

func boot(cli *CLI) (*kernel.Application, error) {
	application, err := kernel.New(kernel.Options{
		EnvFiles: cli.Env,
		Configure: func(cfg *config.Config) {
			if cli.CacheFile != "" {
				cfg.Autowire.CacheFile = cli.CacheFile
			}
			if cli.LogLevel != "" {
				cfg.Log.Level = cli.LogLevel
			}
		},
		Catalog: app.Catalog(),
	})
	if err != nil {
		return nil, err
	}
	if err := application.Boot(); err != nil {
		return nil, err
	}
	return application, nil
}

func main() {
	var cli CLI
	kongCtx := kong.Parse(&cli,
		kong.Name("autowire"),
		kong.Description("Auto-wired application with a persistent constructor parameter cache"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	if err := kongCtx.Run(&cli); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
