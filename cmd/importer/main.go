package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"intake/config"
	"intake/internal/domain/repository"
	"intake/internal/domain/service"
	"intake/internal/infra/extract"
	logs "intake/internal/infra/log"
	"intake/internal/infra/persistence/postgres"
	"intake/internal/usecase"
	"intake/internal/usecase/impl"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Supported subcommands:
// - pos:       Import a POS sales details export
// - customers: Import a customer details spreadsheet
// - cards:     Import a directory of business card images
// - ivr:       Import a directory of IVR call recordings
// - verify:    Reconcile loyalty transactions against orders
// - reset:     Purge the test-namespace tables

func main() {
	// Missing .env is fine; variables may come from the environment itself.
	_ = godotenv.Load()

	// Subcommand definitions
	posCmd := flag.NewFlagSet("pos", flag.ExitOnError)
	customersCmd := flag.NewFlagSet("customers", flag.ExitOnError)
	cardsCmd := flag.NewFlagSet("cards", flag.ExitOnError)
	ivrCmd := flag.NewFlagSet("ivr", flag.ExitOnError)
	verifyCmd := flag.NewFlagSet("verify", flag.ExitOnError)
	resetCmd := flag.NewFlagSet("reset", flag.ExitOnError)

	flags := importerFlags{
		POS: fileFlags{
			cmd:  posCmd,
			file: posCmd.String("file", "", "Path to the POS sales details CSV"),
		},
		Customers: fileFlags{
			cmd:  customersCmd,
			file: customersCmd.String("file", "", "Path to the customer details CSV"),
		},
		Cards: dirFlags{
			cmd: cardsCmd,
			dir: cardsCmd.String("dir", "", "Directory containing business card images"),
		},
		IVR: dirFlags{
			cmd: ivrCmd,
			dir: ivrCmd.String("dir", "", "Directory containing IVR audio recordings"),
		},
		Verify: verifyFlags{cmd: verifyCmd},
		Reset:  resetFlags{cmd: resetCmd},
	}

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := fx.New(
		fx.NopLogger,
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		fx.Invoke(func(deps dependencies) error {
			return runSubcommand(ctx, deps, &flags)
		}),
	)
	if err := app.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type importerFlags struct {
	POS       fileFlags
	Customers fileFlags
	Cards     dirFlags
	IVR       dirFlags
	Verify    verifyFlags
	Reset     resetFlags
}

type fileFlags struct {
	cmd  *flag.FlagSet
	file *string
}

type dirFlags struct {
	cmd *flag.FlagSet
	dir *string
}

type verifyFlags struct {
	cmd *flag.FlagSet
}

type resetFlags struct {
	cmd *flag.FlagSet
}

// dependencies collects everything a subcommand may need.
type dependencies struct {
	fx.In

	Config      *config.Config
	Logger      *slog.Logger
	POS         usecase.POSImportUsecase
	Customers   usecase.CustomerImportUsecase
	Cards       usecase.CardImportUsecase
	IVR         usecase.IVRImportUsecase
	Verify      usecase.VerifyUsecase
	Maintenance repository.Maintenance
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		postgres.New,
		postgres.NewGateway,
	)
}

func injectRepo() fx.Option {
	return fx.Provide(
		postgres.NewCustomerRepository,
		postgres.NewOrderRepository,
		postgres.NewFeedbackRepository,
		postgres.NewMemoryRepository,
		postgres.NewTranscriptRepository,
		postgres.NewTransactionRepository,
		postgres.NewMaintenance,
	)
}

func injectService() fx.Option {
	return fx.Provide(
		newPhoneNormalizer,
		extract.NewOpenAIClient,
		newCardExtractor,
		newFactExtractor,
		newTranscriber,
	)
}

func injectUsecase() fx.Option {
	return fx.Provide(
		impl.NewPOSService,
		impl.NewCustomerService,
		impl.NewCardService,
		newIVRService,
		impl.NewVerifyService,
	)
}

func newPhoneNormalizer(cfg *config.Config) *service.PhoneNormalizer {
	return service.NewPhoneNormalizer(
		cfg.Import.CountryCode,
		cfg.Import.MinLocalDigits,
		cfg.Import.MaxLocalDigits,
	)
}

func newCardExtractor(client *extract.OpenAIClient) service.CardExtractor {
	return client
}

func newFactExtractor(client *extract.OpenAIClient) service.FactExtractor {
	return client
}

func newTranscriber(cfg *config.Config) service.Transcriber {
	return extract.NewElevenLabsClient(cfg)
}

// newIVRService binds the configured noise threshold into the IVR pipeline.
func newIVRService(
	cfg *config.Config,
	customers repository.CustomerRepository,
	transcripts repository.TranscriptRepository,
	memory repository.MemoryRepository,
	transcriber service.Transcriber,
	facts service.FactExtractor,
	phones *service.PhoneNormalizer,
	logger *slog.Logger,
) usecase.IVRImportUsecase {
	minDuration := time.Duration(cfg.Import.MinRecordingSeconds) * time.Second

	return impl.NewIVRService(customers, transcripts, memory, transcriber, facts, phones, minDuration, logger)
}

func runSubcommand(ctx context.Context, deps dependencies, flags *importerFlags) error {
	progress := usecase.Progress(func(message string) {
		fmt.Println(message)
	})

	switch os.Args[1] {
	case "pos":
		return handleImportFile(ctx, flags.POS, deps.POS.ImportFile, progress)
	case "customers":
		return handleImportFile(ctx, flags.Customers, deps.Customers.ImportFile, progress)
	case "cards":
		return handleCards(ctx, deps, flags, progress)
	case "ivr":
		return handleIVR(ctx, deps, flags, progress)
	case "verify":
		return handleVerify(ctx, deps, flags, progress)
	case "reset":
		return handleReset(ctx, deps, flags)
	default:
		printUsage()

		return errors.New("unknown subcommand")
	}
}

func handleImportFile(
	ctx context.Context,
	flags fileFlags,
	importFile func(context.Context, string, usecase.Progress) (*usecase.Summary, error),
	progress usecase.Progress,
) error {
	if err := flags.cmd.Parse(os.Args[2:]); err != nil {
		return errors.Wrap(err, "failed to parse flags")
	}
	if *flags.file == "" {
		return errors.New("--file flag is required")
	}

	summary, err := importFile(ctx, *flags.file, progress)
	if err != nil {
		return err
	}
	fmt.Println(summary)

	return nil
}

func handleCards(ctx context.Context, deps dependencies, flags *importerFlags, progress usecase.Progress) error {
	if err := flags.Cards.cmd.Parse(os.Args[2:]); err != nil {
		return errors.Wrap(err, "failed to parse cards flags")
	}
	if *flags.Cards.dir == "" {
		return errors.New("--dir flag is required for cards command")
	}

	cards, err := readCardImages(*flags.Cards.dir)
	if err != nil {
		return err
	}

	summary, err := deps.Cards.ImportCards(ctx, cards, progress)
	if err != nil {
		return err
	}
	fmt.Println(summary)

	return nil
}

func handleIVR(ctx context.Context, deps dependencies, flags *importerFlags, progress usecase.Progress) error {
	if err := flags.IVR.cmd.Parse(os.Args[2:]); err != nil {
		return errors.Wrap(err, "failed to parse ivr flags")
	}
	if *flags.IVR.dir == "" {
		return errors.New("--dir flag is required for ivr command")
	}

	recordings, err := readRecordings(*flags.IVR.dir)
	if err != nil {
		return err
	}

	summary, err := deps.IVR.ImportRecordings(ctx, recordings, progress)
	if err != nil {
		return err
	}
	fmt.Println(summary)

	return nil
}

func handleVerify(ctx context.Context, deps dependencies, flags *importerFlags, progress usecase.Progress) error {
	if err := flags.Verify.cmd.Parse(os.Args[2:]); err != nil {
		return errors.Wrap(err, "failed to parse verify flags")
	}

	result, err := deps.Verify.VerifyTransactions(ctx, progress)
	if err != nil {
		return err
	}
	fmt.Printf("matched=%d problematic=%d\n", result.Matched, result.Problematic)

	return nil
}

func handleReset(ctx context.Context, deps dependencies, flags *importerFlags) error {
	if err := flags.Reset.cmd.Parse(os.Args[2:]); err != nil {
		return errors.Wrap(err, "failed to parse reset flags")
	}

	if err := deps.Maintenance.ResetTestData(ctx); err != nil {
		return err
	}
	fmt.Println("Test tables reset")

	return nil
}

func printUsage() {
	fmt.Println("Usage: importer <command> [options]")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  pos        Import a POS sales details export")
	fmt.Println("  customers  Import a customer details spreadsheet")
	fmt.Println("  cards      Import a directory of business card images")
	fmt.Println("  ivr        Import a directory of IVR call recordings")
	fmt.Println("  verify     Reconcile loyalty transactions against orders")
	fmt.Println("  reset      Purge the test-namespace tables")
	fmt.Println("")
	fmt.Println("Use 'importer <command> -h' for more information about a command.")
}
