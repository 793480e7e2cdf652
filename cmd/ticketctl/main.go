package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	flag "github.com/spf13/pflag"

	"github.com/simpleauthlink/appticket/helpers"
	"github.com/simpleauthlink/appticket/ticket"
)

const (
	masterSecretEnv = "APPTICKET_MASTER_SECRET"

	usage = `usage: ticketctl <command> [flags] <arg>

commands:
  derive <appid>    prints the secret of the app
  issue <appid>     issues a ticket for the app
  verify <ticket>   verifies the ticket
  inspect <ticket>  prints the fields of the ticket without verifying it
`
)

// errInvalidTicket is returned by the verify command when the ticket is not
// valid, so the process exits with a non zero code.
var errInvalidTicket = errors.New("invalid ticket")

func main() {
	log.SetFlags(0)
	if err := run(os.Args[1:], os.Stdout, time.Now); err != nil {
		if errors.Is(err, errInvalidTicket) {
			os.Exit(1)
		}
		log.Fatalln("ERR:", err)
	}
}

func run(args []string, out io.Writer, now func() time.Time) error {
	if len(args) == 0 {
		return fmt.Errorf("missing command\n%s", usage)
	}
	cmd, args := args[0], args[1:]
	flags := flag.NewFlagSet(cmd, flag.ContinueOnError)
	masterSecret := flags.String("master-secret", "", "master secret, defaults to "+masterSecretEnv+" env var")
	appSecret := flags.String("secret", "", "app secret to issue the ticket without the master secret")
	timeWindow := flags.Duration("time-window", helpers.DefaultMaxTimeWindow, "max time window of valid tickets")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		return fmt.Errorf("%s requires exactly one argument\n%s", cmd, usage)
	}
	arg := flags.Arg(0)
	if *masterSecret == "" {
		*masterSecret = os.Getenv(masterSecretEnv)
	}
	newAuthority := func() (*ticket.Authority, error) {
		authority, err := ticket.NewAuthority(&ticket.AuthorityConfig{
			MasterSecret:  *masterSecret,
			MaxTimeWindow: *timeWindow,
			Now:           now,
		})
		if err != nil {
			return nil, fmt.Errorf("%w, use --master-secret or set %s env var", err, masterSecretEnv)
		}
		return authority, nil
	}
	switch cmd {
	case "derive":
		authority, err := newAuthority()
		if err != nil {
			return err
		}
		secret, err := authority.AppSecret(arg)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, secret)
	case "issue":
		ts, salt := now().UnixMilli(), helpers.RandHex(helpers.SaltSize)
		var t string
		var err error
		if *appSecret != "" {
			t, err = ticket.ClientTicket(arg, *appSecret, ts, salt)
		} else {
			var authority *ticket.Authority
			if authority, err = newAuthority(); err != nil {
				return err
			}
			t, err = authority.ServerTicket(arg, ts, salt)
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(out, t)
	case "verify":
		authority, err := newAuthority()
		if err != nil {
			return err
		}
		res := authority.Verify(arg)
		fmt.Fprintf(out, "valid:          %t\n", res.Valid)
		fmt.Fprintf(out, "proof ok:       %t\n", res.ProofOk)
		fmt.Fprintf(out, "time window ok: %t\n", res.TimeWindowOk)
		if res.Valid {
			fmt.Fprintf(out, "app id:         %s\n", res.AppId)
			return nil
		}
		fmt.Fprintf(out, "error:          %s\n", res.Reason())
		return errInvalidTicket
	case "inspect":
		if ticket.IsPlaceholder(arg) {
			return fmt.Errorf("%w: value returned by a failed issuance", ticket.ErrMalformedTicket)
		}
		t, err := ticket.Decode(arg)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "algorithm: %s\n", t.Algorithm)
		fmt.Fprintf(out, "version:   %s\n", t.Version)
		fmt.Fprintf(out, "app id:    %s\n", t.AppId)
		fmt.Fprintf(out, "issued:    %s (%s)\n", t.Time().UTC().Format(time.RFC3339), humanize.RelTime(t.Time(), now(), "ago", "from now"))
		fmt.Fprintf(out, "salt:      %s\n", t.Salt)
		fmt.Fprintf(out, "proof:     %s\n", t.Proof)
	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
	return nil
}
