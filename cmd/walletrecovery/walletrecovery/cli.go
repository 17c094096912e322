// Package walletrecovery is the command line front end of the wallet recovery tool.
//
// Usage:
//
//	walletrecovery recover --wallet wallet.dat --output privkey.txt
//	walletrecovery analyze --wallet wallet.dat --csv inventory.csv --json inventory.json --raw
//	walletrecovery wif --key <64 hex chars>
//	walletrecovery xkey --key <xpub|xprv> --derive "m/84'/0'/0'/0" --count 5
package walletrecovery

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	safeconversion "github.com/bsv-blockchain/go-safe-conversion"
	"github.com/bsv-blockchain/walletrecovery/errors"
	"github.com/bsv-blockchain/walletrecovery/keys"
	"github.com/bsv-blockchain/walletrecovery/services/recovery"
	"github.com/bsv-blockchain/walletrecovery/settings"
	"github.com/bsv-blockchain/walletrecovery/stores/wallet"
	"github.com/bsv-blockchain/walletrecovery/ulogger"
	"github.com/ordishs/gocore"
	"github.com/urfave/cli/v2"
)

const (
	exitError    = 1
	exitNotFound = 2
)

// Start runs the command line in args (without the program name) and returns the process exit code.
func Start(args []string, version, commit string) int {
	tSettings := settings.NewSettings()
	logger := ulogger.InitLogger(tSettings.ClientName, tSettings)

	app := NewApp(logger, tSettings, os.Stdout, version, commit)

	if err := app.Run(append([]string{app.Name}, args...)); err != nil {
		logger.Errorf("%v", err)
		return ExitCode(err)
	}

	return 0
}

// ExitCode maps a command error to the exit status of the process.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errors.ErrKeyNotFound):
		return exitNotFound
	default:
		return exitError
	}
}

// NewApp builds the cli application, flag defaults come from tSettings.
func NewApp(logger ulogger.Logger, tSettings *settings.Settings, out io.Writer, version, commit string) *cli.App {
	networkFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:  "network",
			Usage: "network of the key: mainnet, testnet, regtest or stn",
			Value: tSettings.Network,
		}
	}

	uncompressedFlag := func() cli.Flag {
		return &cli.BoolFlag{
			Name:  "uncompressed",
			Usage: "encode the WIF without the compression flag",
			Value: !tSettings.Recovery.Compressed,
		}
	}

	walletFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:    "wallet",
			Aliases: []string{"w"},
			Usage:   "wallet file or store url (sqlite:///path, leveldb:///path, memory://)",
			Value:   tSettings.Wallet.Store,
		}
	}

	showSecretsFlag := func() cli.Flag {
		return &cli.BoolFlag{
			Name:  "show-secrets",
			Usage: "print private keys in full in logs and reports",
			Value: !tSettings.Recovery.RedactSecrets,
		}
	}

	return &cli.App{
		Name:                 "walletrecovery",
		Usage:                "Recover private keys from a wallet file",
		Version:              fmt.Sprintf("%s (%s)", version, commit),
		Writer:               out,
		ErrWriter:            out,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:  "recover",
				Usage: "Find the first DER private key in the wallet and save it as WIF",
				Flags: []cli.Flag{
					walletFlag(),
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "file the WIF is written to",
						Value:   tSettings.Recovery.OutputPath,
					},
					networkFlag(),
					uncompressedFlag(),
					&cli.StringFlag{
						Name:  "derPrefix",
						Usage: "only scan records whose hex key starts with this prefix",
						Value: tSettings.Recovery.DERScanPrefix,
					},
					showSecretsFlag(),
				},
				Action: func(c *cli.Context) error {
					if err := applyFlags(c, tSettings); err != nil {
						return err
					}

					return runRecover(c, logger, tSettings)
				},
			},
			{
				Name:  "analyze",
				Usage: "List descriptors, public keys and scriptPubKey records of the wallet",
				Flags: []cli.Flag{
					walletFlag(),
					&cli.StringFlag{
						Name:  "csv",
						Usage: "write a per record inventory to this csv file",
						Value: tSettings.Recovery.InventoryCSV,
					},
					&cli.StringFlag{
						Name:  "json",
						Usage: "write the inventory summary to this json file",
					},
					&cli.BoolFlag{
						Name:  "raw",
						Usage: "also scan record values for embedded extended keys",
					},
					showSecretsFlag(),
				},
				Action: func(c *cli.Context) error {
					if err := applyFlags(c, tSettings); err != nil {
						return err
					}

					return runAnalyze(c, logger, tSettings)
				},
			},
			{
				Name:  "wif",
				Usage: "Encode a raw hex private key as WIF",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "key",
						Usage:    "32 byte private key in hex",
						Required: true,
					},
					networkFlag(),
					uncompressedFlag(),
				},
				Action: func(c *cli.Context) error {
					if err := applyFlags(c, tSettings); err != nil {
						return err
					}

					return runWIF(c, tSettings)
				},
			},
			{
				Name:  "xkey",
				Usage: "Decode the fields of an extended key",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "key",
						Usage:    "xpub, xprv, tpub or tprv",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "derive",
						Usage: "BIP32 path of the parent of the listed children, hardened segments end in ' or h",
					},
					&cli.IntFlag{
						Name:  "count",
						Usage: "number of children of --derive to list",
						Value: 1,
					},
					&cli.Uint64Flag{
						Name:  "start",
						Usage: "index of the first child of --derive",
					},
					networkFlag(),
					showSecretsFlag(),
				},
				Action: func(c *cli.Context) error {
					if err := applyFlags(c, tSettings); err != nil {
						return err
					}

					if err := runXKey(c, tSettings); err != nil {
						return err
					}

					if !c.IsSet("derive") {
						return nil
					}

					return runDerive(c, tSettings)
				},
			},
			{
				Name:  "settings",
				Usage: "Print the resolved settings and build version",
				Action: func(c *cli.Context) error {
					stats := gocore.Config().Stats()
					_, _ = fmt.Fprintf(c.App.Writer, "STATS\n%s\nVERSION\n-------\n%s (%s)\n\n", stats, version, commit)
					_, _ = fmt.Fprintf(c.App.Writer, "network=%s wallet=%s output=%s redact=%t\n",
						tSettings.Network, tSettings.Wallet.Store, tSettings.Recovery.OutputPath, tSettings.Recovery.RedactSecrets)

					return nil
				},
			},
		},
	}
}

// applyFlags copies the flags that were set on the command line over the settings.
func applyFlags(c *cli.Context, tSettings *settings.Settings) error {
	if c.IsSet("network") {
		if err := tSettings.SetNetwork(c.String("network")); err != nil {
			return err
		}
	}

	if c.IsSet("uncompressed") {
		tSettings.Recovery.Compressed = !c.Bool("uncompressed")
	}

	if c.IsSet("derPrefix") {
		tSettings.Recovery.DERScanPrefix = c.String("derPrefix")
	}

	if c.IsSet("show-secrets") {
		tSettings.Recovery.RedactSecrets = !c.Bool("show-secrets")
	}

	return nil
}

func openStore(c *cli.Context, logger ulogger.Logger) (wallet.Store, func(), error) {
	store, err := wallet.New(c.Context, logger, c.String("wallet"))
	if err != nil {
		return nil, nil, err
	}

	closeFn := func() {
		if err := store.Close(); err != nil {
			logger.Warnf("failed to close wallet: %v", err)
		}
	}

	return store, closeFn, nil
}

func runRecover(c *cli.Context, logger ulogger.Logger, tSettings *settings.Settings) error {
	store, closeStore, err := openStore(c, logger)
	if err != nil {
		return err
	}

	defer closeStore()

	r, err := recovery.New(logger, tSettings, store, c.App.Writer)
	if err != nil {
		return err
	}

	_, err = r.Recover(c.Context, c.String("output"))

	return err
}

func runAnalyze(c *cli.Context, logger ulogger.Logger, tSettings *settings.Settings) error {
	store, closeStore, err := openStore(c, logger)
	if err != nil {
		return err
	}

	defer closeStore()

	r, err := recovery.New(logger, tSettings, store, c.App.Writer)
	if err != nil {
		return err
	}

	inv, err := r.Analyze(c.Context, recovery.AnalyzeOptions{Raw: c.Bool("raw")})
	if err != nil {
		return err
	}

	if csvPath := c.String("csv"); csvPath != "" {
		err = writeFile(csvPath, func(w io.Writer) error {
			return recovery.WriteInventoryCSV(w, inv.Rows)
		})
		if err != nil {
			return err
		}

		logger.Infof("wrote %d inventory rows to %s", len(inv.Rows), csvPath)
	}

	if jsonPath := c.String("json"); jsonPath != "" {
		err = writeFile(jsonPath, func(w io.Writer) error {
			return r.WriteInventoryJSON(w, inv)
		})
		if err != nil {
			return err
		}

		logger.Infof("wrote inventory summary to %s", jsonPath)
	}

	return nil
}

func writeFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.NewIOError("could not create %s", path, err)
	}

	if err = write(f); err != nil {
		_ = f.Close()
		return err
	}

	if err = f.Close(); err != nil {
		return errors.NewIOError("could not close %s", path, err)
	}

	return nil
}

func runWIF(c *cli.Context, tSettings *settings.Settings) error {
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(c.String("key")), "0x"))
	if err != nil {
		return errors.NewInvalidArgumentError("key is not hex", err)
	}

	if err = keys.ValidatePrivateKey(raw); err != nil {
		return err
	}

	wif, err := keys.EncodeWIF(raw, tSettings.ChainCfgParams.PrivateKeyID, tSettings.Recovery.Compressed)
	if err != nil {
		return err
	}

	addresses, err := keys.DeriveAddresses(raw, tSettings.ChainCfgParams, tSettings.Address.Bech32HRP)
	if err != nil {
		return err
	}

	w := c.App.Writer

	_, _ = fmt.Fprintf(w, "WIF:        %s\n", wif)
	_, _ = fmt.Fprintf(w, "Public key: %s\n", hex.EncodeToString(addresses.PublicKey))
	_, _ = fmt.Fprintf(w, "P2PKH:      %s\n", addresses.P2PKH)
	_, _ = fmt.Fprintf(w, "P2WPKH:     %s\n", addresses.P2WPKH)

	return nil
}

func runXKey(c *cli.Context, tSettings *settings.Settings) error {
	key, err := keys.DecodeExtendedKey(strings.TrimSpace(c.String("key")))
	if err != nil {
		return err
	}

	w := c.App.Writer

	_, _ = fmt.Fprintf(w, "Type:         %s\n", map[bool]string{true: "private", false: "public"}[key.Private])
	_, _ = fmt.Fprintf(w, "Version:      %s\n", hex.EncodeToString(key.Version[:]))
	_, _ = fmt.Fprintf(w, "Depth:        %d\n", key.Depth)
	_, _ = fmt.Fprintf(w, "Fingerprint:  %s\n", hex.EncodeToString(key.ParentFingerprint[:]))
	_, _ = fmt.Fprintf(w, "Child number: %d (hardened: %t)\n", key.ChildNumber, key.IsHardened())
	_, _ = fmt.Fprintf(w, "Chain code:   %s\n", hex.EncodeToString(key.ChainCode[:]))

	publicKey := key.PublicKey()

	if key.Private {
		wif, err := keys.EncodeWIF(key.PrivateKey(), tSettings.ChainCfgParams.PrivateKeyID, true)
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintf(w, "WIF:          %s\n", wif)

		if publicKey, err = keys.CompressedPublicKey(key.PrivateKey()); err != nil {
			return err
		}
	}

	addresses, err := keys.AddressesFromPublicKey(publicKey, tSettings.ChainCfgParams, tSettings.Address.Bech32HRP)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(w, "Public key:   %s\n", hex.EncodeToString(addresses.PublicKey))
	_, _ = fmt.Fprintf(w, "P2PKH:        %s\n", addresses.P2PKH)
	_, _ = fmt.Fprintf(w, "P2WPKH:       %s\n", addresses.P2WPKH)

	return nil
}

func runDerive(c *cli.Context, tSettings *settings.Settings) error {
	start, err := safeconversion.Uint64ToUint32(c.Uint64("start"))
	if err != nil {
		return errors.NewInvalidArgumentError("invalid --start", err)
	}

	derived, err := keys.DeriveRange(strings.TrimSpace(c.String("key")), c.String("derive"), start, c.Int("count"))
	if err != nil {
		return err
	}

	redactor := recovery.NewRedactor(tSettings.Recovery.RedactSecrets, 0)
	w := c.App.Writer

	_, _ = fmt.Fprintf(w, "\nDerived keys\n")

	for _, d := range derived {
		addresses, err := keys.AddressesFromPublicKey(d.PublicKey, tSettings.ChainCfgParams, tSettings.Address.Bech32HRP)
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintf(w, "%s %s %s %s", d.Path, hex.EncodeToString(addresses.PublicKey), addresses.P2PKH, addresses.P2WPKH)

		if d.PrivateKey != nil {
			wif, err := keys.EncodeWIF(d.PrivateKey, tSettings.ChainCfgParams.PrivateKeyID, true)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(w, " %s", redactor.Secret(wif))
		}

		_, _ = fmt.Fprintln(w)
	}

	return nil
}
