package commands

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"sealrpc/internal/app"
	"sealrpc/internal/domain"
)

var (
	cfg    app.Config
	wire   *app.Wire
	flush  func()
	stdin  = os.Stdin
	stdout = os.Stdout

	home       string
	serverURL  string
	curve      string
	cipherName string
	backend    string
	passphrase string
	timeout    time.Duration
	logLevel   string
	verbose    bool
	staticID   uint64
)

func Execute() error {
	root := &cobra.Command{
		Use:          "sealrpc",
		Short:        "Encrypted JSON-RPC client",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfg, err = app.FromEnv(); err != nil {
				return err
			}
			applyFlags(cmd)
			if flush, err = app.InitLogging(cfg.LogLevel, cfg.LogDev); err != nil {
				return err
			}
			wire, err = app.NewWire(cfg)
			return err
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&home, "home", "", "config dir (default ~/.sealrpc)")
	pf.StringVarP(&serverURL, "url", "u", "", "server base URL (e.g. http://127.0.0.1:8545)")
	pf.StringVar(&curve, "curve", "", "key agreement curve: p256|secp256k1")
	pf.StringVar(&cipherName, "cipher", "", "frame cipher: aes-256-gcm|chacha20-poly1305")
	pf.StringVar(&backend, "trust", "", "trust store: file|sealed|redis|memory|none")
	pf.StringVarP(&passphrase, "passphrase", "p", "", "passphrase for the sealed trust store")
	pf.DurationVar(&timeout, "timeout", 0, "per-request HTTP timeout (default 30s)")
	pf.StringVar(&logLevel, "log-level", "", "log level (default info)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "human-readable debug logging")
	pf.Uint64Var(&staticID, "static-id", 0, "send every request with this id")

	root.AddCommand(discoverCmd(), fingerprintCmd(), callCmd(), trustCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err := root.ExecuteContext(ctx)
	if wire != nil {
		if cerr := wire.Close(); err == nil {
			err = cerr
		}
	}
	if flush != nil {
		flush()
	}
	return err
}

// applyFlags overrides environment values with flags the user set.
func applyFlags(cmd *cobra.Command) {
	pf := cmd.Flags()
	if pf.Changed("home") {
		cfg.Home = home
	}
	if pf.Changed("url") {
		cfg.ServerURL = serverURL
	}
	if pf.Changed("curve") {
		cfg.Curve = domain.CurveName(curve)
	}
	if pf.Changed("cipher") {
		cfg.Cipher = domain.CipherName(cipherName)
	}
	if pf.Changed("trust") {
		cfg.TrustBackend = app.TrustBackend(backend)
	}
	if pf.Changed("passphrase") {
		cfg.Passphrase = passphrase
	}
	if pf.Changed("timeout") {
		cfg.Timeout = timeout
	}
	if pf.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if pf.Changed("static-id") {
		cfg.StaticID = staticID
	}
	if verbose {
		cfg.LogDev = true
		if !pf.Changed("log-level") {
			cfg.LogLevel = "debug"
		}
	}
}
