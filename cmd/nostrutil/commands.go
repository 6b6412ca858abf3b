package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ckb-nostr/nostr-utils-go/pkg/nostr"
	"github.com/ckb-nostr/nostr-utils-go/pkg/shared"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

type cli struct {
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
	logLevel string
	logJSON  bool
	logger   hclog.Logger
}

func newRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdin: stdin, stdout: stdout, stderr: stderr}

	rootCmd := &cobra.Command{
		Use:           "nostrutil",
		Short:         "Sign and validate nostr events",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			c.logger = hclog.New(&hclog.LoggerOptions{
				Name:       "nostrutil",
				Level:      hclog.LevelFromString(c.logLevel),
				JSONFormat: c.logJSON,
				Output:     c.stderr,
			})
		},
	}
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "warn", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&c.logJSON, "log-json", false, "Emit logs as JSON")

	rootCmd.AddCommand(c.keygenCommand(), c.signCommand(), c.verifyCommand(), c.idCommand())
	rootCmd.AddCommand(c.unlockCommand(), c.lockArgsCommand(), c.checkUnlockCommand())
	return rootCmd
}

func (c *cli) keygenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate a new secret key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := nostr.GenerateKeys()
			if err != nil {
				return fmt.Errorf("generate keys: %w", err)
			}
			c.logger.Debug("generated key pair", "pubkey", keys.PublicKey().Hex())
			fmt.Fprintf(c.stdout, "secret=%s\n", keys.SecretHex())
			fmt.Fprintf(c.stdout, "pubkey=%s\n", keys.PublicKey().Hex())
			return nil
		},
	}
}

func (c *cli) signCommand() *cobra.Command {
	var (
		content   string
		kind      uint16
		rawTags   []string
		createdAt int64
	)
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign an event with NOSTR_SECRET_KEY and print it as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := shared.SignerConfigFromEnv()
			if err != nil {
				return err
			}
			keys, err := config.Keys()
			if err != nil {
				return err
			}
			if createdAt == 0 {
				createdAt = config.CreatedAt
			}

			unsigned := nostr.NewTextNote(keys.PublicKey(), content, parseTags(rawTags), createdAt)
			unsigned.Kind = kind
			event, err := keys.SignEvent(unsigned)
			if err != nil {
				return fmt.Errorf("sign event: %w", err)
			}
			c.logger.Info("signed event", "id", event.ID.Hex(), "kind", event.Kind)
			fmt.Fprintln(c.stdout, event.AsJSON())
			return nil
		},
	}
	cmd.Flags().StringVarP(&content, "content", "c", "", "Event content")
	cmd.Flags().Uint16VarP(&kind, "kind", "k", nostr.KindTextNote, "Event kind")
	cmd.Flags().StringArrayVarP(&rawTags, "tag", "t", nil, "Tag as comma separated values, e.g. p,<pubkey> (repeatable)")
	cmd.Flags().Int64Var(&createdAt, "created-at", 0, "Unix timestamp (defaults to NOSTR_CREATED_AT or now)")
	return cmd
}

func (c *cli) verifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify [event.json]",
		Short: "Verify an event's id and signature (reads stdin when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			event, err := c.readEvent(args)
			if err != nil {
				return err
			}
			if err := event.Verify(); err != nil {
				c.logEventError("verification failed", err)
				return fmt.Errorf("event %s: %w", event.ID.Hex(), err)
			}
			c.logger.Debug("event verified", "id", event.ID.Hex(), "pubkey", event.PubKey.Hex())
			fmt.Fprintf(c.stdout, "valid %s\n", event.ID.Hex())
			return nil
		},
	}
}

func (c *cli) idCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "id [event.json]",
		Short: "Recompute an event id and compare it with the stored one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			event, err := c.readEvent(args)
			if err != nil {
				return err
			}
			computed := event.ComputeID()
			fmt.Fprintln(c.stdout, computed.Hex())
			if computed != event.ID {
				c.logger.Warn("stored id differs", "stored", event.ID.Hex(), "computed", computed.Hex())
				return nostr.ErrInvalidEventID
			}
			return nil
		},
	}
}

func (c *cli) unlockCommand() *cobra.Command {
	var (
		rawSighash string
		createdAt  int64
	)
	cmd := &cobra.Command{
		Use:   "unlock",
		Short: "Sign a CKB unlock event committing to a transaction sighash_all",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sighashAll, err := parseSighashAll(rawSighash)
			if err != nil {
				return err
			}
			config, err := shared.SignerConfigFromEnv()
			if err != nil {
				return err
			}
			keys, err := config.Keys()
			if err != nil {
				return err
			}
			if createdAt == 0 {
				createdAt = config.CreatedAt
			}

			event, err := keys.SignEvent(nostr.NewUnlockEvent(keys.PublicKey(), sighashAll, createdAt))
			if err != nil {
				return fmt.Errorf("sign unlock event: %w", err)
			}
			c.logger.Info("signed unlock event", "id", event.ID.Hex(), "sighash_all", sighashAll.Hex())
			fmt.Fprintln(c.stdout, event.AsJSON())
			return nil
		},
	}
	cmd.Flags().StringVar(&rawSighash, "sighash", "", "Transaction sighash_all as hex (32 bytes)")
	cmd.Flags().Int64Var(&createdAt, "created-at", 0, "Unix timestamp (defaults to NOSTR_CREATED_AT or now)")
	_ = cmd.MarkFlagRequired("sighash")
	return cmd
}

func (c *cli) lockArgsCommand() *cobra.Command {
	var (
		rawPubkey string
		pow       int
	)
	cmd := &cobra.Command{
		Use:   "lock-args",
		Short: "Print nostr-lock script args for a public key or a pow difficulty",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if rawPubkey != "" && cmd.Flags().Changed("pow") {
				return fmt.Errorf("--pubkey and --pow are mutually exclusive")
			}
			if rawPubkey == "" && !cmd.Flags().Changed("pow") {
				return fmt.Errorf("one of --pubkey or --pow is required")
			}

			var lockArgs []byte
			if rawPubkey != "" {
				publicKey, err := nostr.PublicKeyFromHex(strings.TrimSpace(rawPubkey))
				if err != nil {
					return fmt.Errorf("parse pubkey: %w", err)
				}
				lockArgs = nostr.PubkeyScriptArgs(publicKey)
			} else {
				var err error
				lockArgs, err = nostr.PowScriptArgs(pow)
				if err != nil {
					return err
				}
			}
			fmt.Fprintf(c.stdout, "0x%s\n", hex.EncodeToString(lockArgs))
			return nil
		},
	}
	cmd.Flags().StringVar(&rawPubkey, "pubkey", "", "Owner public key as hex")
	cmd.Flags().IntVar(&pow, "pow", 0, "Required leading zero bits of the unlock event id (0-255)")
	return cmd
}

func (c *cli) checkUnlockCommand() *cobra.Command {
	var rawArgs string
	cmd := &cobra.Command{
		Use:   "check-unlock [event.json]",
		Short: "Check that an unlock event satisfies nostr-lock script args",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(rawArgs), "0x"))
			if err != nil {
				return fmt.Errorf("parse lock args: %w", err)
			}
			lockArgs, err := nostr.ParseLockArgs(raw)
			if err != nil {
				return err
			}
			event, err := c.readEvent(args)
			if err != nil {
				return err
			}
			sighashAll, err := lockArgs.Unlock(event)
			if err != nil {
				c.logEventError("unlock rejected", err)
				return fmt.Errorf("event %s: %w", event.ID.Hex(), err)
			}
			c.logger.Debug("unlock accepted", "id", event.ID.Hex(), "difficulty", event.ID.Difficulty())
			fmt.Fprintf(c.stdout, "unlocked %s\n", sighashAll.Hex())
			return nil
		},
	}
	cmd.Flags().StringVar(&rawArgs, "args", "", "Lock script args as hex (21 bytes)")
	_ = cmd.MarkFlagRequired("args")
	return cmd
}

func parseSighashAll(raw string) (nostr.SighashAll, error) {
	decoded, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(raw), "0x"))
	if err != nil || len(decoded) != len(nostr.SighashAll{}) {
		return nostr.SighashAll{}, fmt.Errorf("sighash must be 32 bytes of hex")
	}
	var sighashAll nostr.SighashAll
	copy(sighashAll[:], decoded)
	return sighashAll, nil
}

func (c *cli) readEvent(args []string) (nostr.Event, error) {
	var (
		data []byte
		err  error
	)
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(c.stdin)
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return nostr.Event{}, fmt.Errorf("read event: %w", err)
	}

	event, err := nostr.EventFromJSON([]byte(strings.TrimSpace(string(data))))
	if err != nil {
		c.logEventError("decode failed", err)
		return nostr.Event{}, fmt.Errorf("decode event: %w", err)
	}
	return event, nil
}

func (c *cli) logEventError(message string, err error) {
	if value, ok := nostr.AsError(err); ok {
		c.logger.Error(message, "kind", value.Kind().String(), "error", value.Error())
		return
	}
	c.logger.Error(message, "error", err)
}

func parseTags(raw []string) nostr.Tags {
	tags := make(nostr.Tags, 0, len(raw))
	for _, entry := range raw {
		if strings.TrimSpace(entry) == "" {
			continue
		}
		tags = append(tags, strings.Split(entry, ","))
	}
	return tags
}
