package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/urfave/cli/v2"

	"todochain/config"
	"todochain/infras/kafka"
	ledger "todochain/internal/domains/ledger/model"
	ledgerDto "todochain/internal/domains/ledger/model/dto"
	todoService "todochain/internal/domains/todo/service"
	"todochain/shared/constant"
)

const (
	flagServer  = "server"
	flagToken   = "token"
	flagAPIKey  = "api-key"
	flagPayer   = "payer"
	flagAccount = "account"
	flagProgram = "program"
	flagOut     = "out"
	flagDone    = "done"
	flagPending = "pending"
	flagGroup   = "group"
	flagMin     = "min-lamports"
	flagPage    = "page"
	flagLimit   = "limit"

	defaultServer = "http://localhost:8080"
)

// Run executes the todo client with the given arguments and returns a process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := NewApp(stdout, stderr)

	if err := app.RunContext(ctx, args); err != nil {
		fail(stderr, err.Error())

		var exit cli.ExitCoder
		if errors.As(err, &exit) {
			return exit.ExitCode()
		}

		return 1
	}

	return 0
}

func NewApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "todo",
		Usage:     "keep a to-do list in a ledger account",
		Writer:    stdout,
		ErrWriter: stderr,
		ExitErrHandler: func(*cli.Context, error) {
			// Run reports errors and picks the exit code.
		},
		Flags: []cli.Flag{
			&cli.StringFlag{Name: flagServer, Value: defaultServer, EnvVars: []string{"TODO_SERVER"}, Usage: "ledger API base URL"},
			&cli.StringFlag{Name: flagToken, EnvVars: []string{"TODO_TOKEN"}, Usage: "operator bearer token"},
			&cli.StringFlag{Name: flagAPIKey, EnvVars: []string{"TODO_API_KEY"}, Usage: "internal API key, used instead of a token"},
			&cli.StringFlag{Name: flagPayer, Value: defaultKeypairPath("payer.json"), EnvVars: []string{"TODO_PAYER"}, Usage: "keypair paying for storage"},
			&cli.StringFlag{Name: flagAccount, Value: defaultKeypairPath("todo.json"), EnvVars: []string{"TODO_ACCOUNT"}, Usage: "keypair of the to-do account"},
			&cli.StringFlag{Name: flagProgram, EnvVars: []string{"TODO_PROGRAM_ID"}, Usage: "program address, derived from APP_NAME when empty"},
		},
		Commands: []*cli.Command{
			{
				Name:      "keygen",
				Usage:     "create a keypair file",
				ArgsUsage: " ",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: flagOut, Required: true, Usage: "path of the new keypair file"},
				},
				Action: keygen,
			},
			{
				Name:      "address",
				Usage:     "print the payer and to-do account addresses",
				ArgsUsage: " ",
				Action:    address,
			},
			{
				Name:      "airdrop",
				Usage:     "fund the payer from the faucet",
				ArgsUsage: "<lamports>",
				Action:    airdrop,
			},
			{
				Name:      "add",
				Usage:     "append a to-do item",
				ArgsUsage: "<name...>",
				Action:    add,
			},
			{
				Name:      "done",
				Usage:     "mark the first item with this name as done",
				ArgsUsage: "<name...>",
				Action:    markDone,
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "show the to-do list",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: flagDone, Usage: "only completed items"},
					&cli.BoolFlag{Name: flagPending, Usage: "only pending items"},
				},
				Action: list,
			},
			{
				Name:      "accounts",
				Usage:     "list the to-do accounts held by the program",
				ArgsUsage: " ",
				Flags: []cli.Flag{
					&cli.Uint64Flag{Name: flagMin, Usage: "hide accounts below this balance"},
					&cli.IntFlag{Name: flagPage, Value: constant.DefaultValuePage, Usage: "page to show"},
					&cli.IntFlag{Name: flagLimit, Value: constant.DefaultValueLimit, Usage: "accounts per page"},
				},
				Action: accounts,
			},
			{
				Name:  "watch",
				Usage: "stream transaction receipts from kafka",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: flagGroup, Usage: "consumer group, empty reads from the latest offset"},
				},
				Action: watch,
			},
		},
	}
}

func defaultKeypairPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}

	return filepath.Join(home, ".config", "todochain", name)
}

func client(c *cli.Context) *Client {
	return NewClient(c.String(flagServer), c.String(flagToken), c.String(flagAPIKey))
}

func programID(c *cli.Context) (ledger.Pubkey, error) {
	if raw := c.String(flagProgram); raw != "" {
		id, err := ledger.PubkeyFromBase58(raw)
		if err != nil {
			return ledger.Pubkey{}, cli.Exit(fmt.Sprintf("invalid --%s: %v", flagProgram, err), 2)
		}

		return id, nil
	}

	return todoService.ProgramID(config.Get())
}

func itemName(c *cli.Context) (string, error) {
	name := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if name == "" {
		return "", cli.Exit(fmt.Sprintf("usage: todo %s %s", c.Command.Name, c.Command.ArgsUsage), 2)
	}

	return name, nil
}

func keygen(c *cli.Context) error {
	keypair, err := GenerateKeypair(c.String(flagOut))
	if err != nil {
		return err
	}

	ok(c.App.Writer, "wrote "+c.String(flagOut)+" "+keypair.Pubkey().String())

	return nil
}

func address(c *cli.Context) error {
	for _, flag := range []string{flagPayer, flagAccount} {
		keypair, err := LoadKeypair(c.String(flag))
		if err != nil {
			return err
		}

		fmt.Fprintf(c.App.Writer, "%-8s %s\n", flag, keypair.Pubkey())
	}

	return nil
}

func airdrop(c *cli.Context) error {
	lamports, err := strconv.ParseUint(c.Args().First(), 10, 64)
	if err != nil || c.NArg() != 1 {
		return cli.Exit("usage: todo airdrop <lamports>", 2)
	}

	payer, err := LoadKeypair(c.String(flagPayer))
	if err != nil {
		return err
	}

	receipt, err := client(c).Airdrop(c.Context, payer.Pubkey(), lamports)
	if err != nil {
		return err
	}

	ok(c.App.Writer, fmt.Sprintf("airdropped %d lamports to %s", lamports, payer.Pubkey()))
	fmt.Fprintln(c.App.Writer, renderReceipt(receipt))

	return nil
}

// submit signs ix against the ledger's current slot so the message is unique and expires.
func submit(c *cli.Context, ix ledger.Instruction, signers ...Keypair) (ledgerDto.ReceiptResponse, error) {
	api := client(c)

	clock, err := api.GetClock(c.Context)
	if err != nil {
		return ledgerDto.ReceiptResponse{}, err
	}

	tx := ledger.Transaction{Message: ledger.Message{
		RecentSlot:   clock.Slot,
		Instructions: []ledger.Instruction{ix},
	}}

	for _, signer := range signers {
		tx.Sign(signer.Private)
	}

	return api.SubmitTransaction(c.Context, tx)
}

func add(c *cli.Context) error {
	name, err := itemName(c)
	if err != nil {
		return err
	}

	program, err := programID(c)
	if err != nil {
		return err
	}

	payer, err := LoadKeypair(c.String(flagPayer))
	if err != nil {
		return err
	}

	account, err := LoadKeypair(c.String(flagAccount))
	if err != nil {
		return err
	}

	ix := todoService.NewAddItemInstruction(program, account.Pubkey(), payer.Pubkey(), name)

	receipt, err := submit(c, ix, account, payer)
	if err != nil {
		return err
	}

	ok(c.App.Writer, "added "+name)
	fmt.Fprintln(c.App.Writer, renderReceipt(receipt))

	return nil
}

func markDone(c *cli.Context) error {
	name, err := itemName(c)
	if err != nil {
		return err
	}

	program, err := programID(c)
	if err != nil {
		return err
	}

	account, err := LoadKeypair(c.String(flagAccount))
	if err != nil {
		return err
	}

	ix := todoService.NewMarkDoneInstruction(program, account.Pubkey(), name)

	receipt, err := submit(c, ix, account)
	if err != nil {
		return err
	}

	ok(c.App.Writer, "done "+name)
	fmt.Fprintln(c.App.Writer, renderReceipt(receipt))

	return nil
}

func list(c *cli.Context) error {
	if c.Bool(flagDone) && c.Bool(flagPending) {
		return cli.Exit(fmt.Sprintf("--%s and --%s are mutually exclusive", flagDone, flagPending), 2)
	}

	var filter *bool

	switch {
	case c.Bool(flagDone):
		done := true
		filter = &done
	case c.Bool(flagPending):
		done := false
		filter = &done
	}

	account, err := LoadKeypair(c.String(flagAccount))
	if err != nil {
		return err
	}

	todos, err := client(c).GetTodos(c.Context, account.Pubkey(), filter)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.App.Writer, renderTodos(todos))

	return nil
}

func accounts(c *cli.Context) error {
	if c.Int(flagPage) < 1 || c.Int(flagLimit) < 1 {
		return cli.Exit(fmt.Sprintf("--%s and --%s must be positive", flagPage, flagLimit), 2)
	}

	program, err := programID(c)
	if err != nil {
		return err
	}

	res, err := client(c).GetAccounts(c.Context, program, c.Uint64(flagMin), c.Int(flagPage), c.Int(flagLimit))
	if err != nil {
		return err
	}

	fmt.Fprintln(c.App.Writer, renderAccounts(res, c.Int(flagPage)))

	return nil
}

func watch(c *cli.Context) error {
	cfg := config.Get()

	consumer := kafka.New(cfg)
	defer consumer.Close()

	fmt.Fprintln(c.App.Writer, mutedStyle.Render("watching "+cfg.Kafka.Topic.Receipts))

	err := consumer.Consume(c.Context, c.String(flagGroup), cfg.Kafka.Topic.Receipts, func(message kafkaGo.Message) {
		receipt, err := kafka.Decode[ledger.Receipt](message)
		if err != nil {
			fail(c.App.ErrWriter, err.Error())

			return
		}

		fmt.Fprintln(c.App.Writer, renderReceipt(receiptResponse(receipt)))
		fmt.Fprintln(c.App.Writer)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}
