package mint

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/ctsync/ctsync/assess"
	"github.com/ctsync/ctsync/client"
	"github.com/ctsync/ctsync/constants"
	"github.com/ctsync/ctsync/internal/util"
	"github.com/ctsync/ctsync/pkg/log"
	"github.com/ctsync/ctsync/storage"
	"github.com/spf13/cobra"
)

var (
	evidenceFilePath string
	title            string
	description      string
	location         string
	urgency          string
	autoAssess       bool
	sessionToken     string
	dryRun           bool
	jsonAttributes   string
	cborAttributes   string
	walletRpcConnect string
	walletUser       string
	walletPassword   string
	contract         string
	storageEndpoint  string
	storageApiKey    string
	assessApiKey     string
)

func init() {
	Cmd.Flags().StringVarP(&evidenceFilePath, "filepath", "f", "", "evidence file path (png, jpg, gif, webp or h264 mp4)")
	Cmd.Flags().StringVarP(&title, "title", "", "", "issue title, e.g. POTHOLE_MAIN_ST")
	Cmd.Flags().StringVarP(&description, "description", "", "", "issue description")
	Cmd.Flags().StringVarP(&location, "location", "", "", "issue location, e.g. MAIN ST & 5TH AVE, WARD 3")
	Cmd.Flags().StringVarP(&urgency, "urgency", "", "", "urgency level (Low/Medium/High); empty with --assess derives it")
	Cmd.Flags().BoolVarP(&autoAssess, "assess", "", false, "ask the advisory service for an urgency assessment")
	Cmd.Flags().StringVarP(&sessionToken, "token", "", "", "session token guarding against concurrent submissions")
	Cmd.Flags().BoolVarP(&dryRun, "dryrun", "", false, "Don't sign or broadcast transactions.")
	Cmd.Flags().StringVarP(&jsonAttributes, "jsonmetadata", "", "", "Include JSON attributes in file at <METADATA> on the metadata document")
	Cmd.Flags().StringVarP(&cborAttributes, "cbormetadata", "", "", "Include CBOR attributes in file at <METADATA> on the metadata document")
	Cmd.Flags().StringVarP(&walletRpcConnect, "rpcconnect", "s", "http://localhost:8545", "the URL of the wallet RPC endpoint to connect to")
	Cmd.Flags().StringVarP(&walletUser, "user", "u", "", "wallet rpc server username")
	Cmd.Flags().StringVarP(&walletPassword, "password", "P", "", "wallet rpc server password")
	Cmd.Flags().StringVarP(&contract, "contract", "", "", "evidence registry contract address")
	Cmd.Flags().StringVarP(&storageEndpoint, "storage", "", "", "content-addressed storage upload endpoint")
	Cmd.Flags().StringVarP(&storageApiKey, "storagekey", "", os.Getenv("CTSYNC_STORAGE_KEY"), "storage upload credential")
	Cmd.Flags().StringVarP(&assessApiKey, "assesskey", "", os.Getenv("CTSYNC_ASSESS_KEY"), "advisory service credential")
	for _, required := range []string{"filepath", "title", "contract", "storage"} {
		if err := Cmd.MarkFlagRequired(required); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	}
}

func configCheck() error {
	switch urgency {
	case "", constants.SeverityLow.String(), constants.SeverityMedium.String(), constants.SeverityHigh.String():
	default:
		return fmt.Errorf("urgency must be one of Low/Medium/High, got `%s`", urgency)
	}

	// Initialize log rotation. After log rotation has been initialized,
	// the logger variables may be used.
	logFile := btcutil.AppDataDir(filepath.Join(constants.AppName, "submit", "logs", "submit.log"), false)
	log.InitLogRotator(logFile)
	return nil
}

// Cmd runs the evidence submission pipeline from the command line.
var Cmd = &cobra.Command{
	Use:   "submit",
	Short: "upload evidence and anchor it to the public ledger",
	Run: func(cmd *cobra.Command, args []string) {
		if err := submit(); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

// submit wires the collaborators and drives one pipeline run.
func submit() error {
	if err := configCheck(); err != nil {
		return err
	}
	defer log.CloseLogRotator()

	media, err := util.ContentTypeForPath(evidenceFilePath)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(evidenceFilePath)
	if err != nil {
		return err
	}

	rpcCli, err := client.NewClient(
		client.WithURL(walletRpcConnect),
		client.WithBasicAuth(walletUser, walletPassword),
	)
	if err != nil {
		return err
	}

	ctx := context.Background()
	signer, err := client.Connect(ctx, rpcCli)
	if err != nil {
		return err
	}

	addresser, err := storage.NewAddresser(
		storage.WithEndpoint(storageEndpoint),
		storage.WithApiKey(storageApiKey),
	)
	if err != nil {
		return err
	}
	builder := storage.NewBuilder(addresser)

	attributes, err := buildAttributes(ctx)
	if err != nil {
		return err
	}

	minterOpts := []MinterOption{
		WithAddresser(addresser),
		WithBuilder(builder),
		WithContract(contract),
	}
	if signer != nil {
		minterOpts = append(minterOpts, WithSigner(signer), WithConfirmer(signer))
	}
	minter, err := NewMinter(minterOpts...)
	if err != nil {
		return err
	}

	result, err := minter.Mint(ctx, &Submission{
		Token:       sessionToken,
		Data:        data,
		ContentType: media.ContentType.String(),
		Name:        title,
		Description: description,
		Attributes:  attributes,
		DryRun:      dryRun,
	}, func(p Progress) {
		log.Log.Infof("step %d (%d%%): %s", p.Step, p.Percent, p.Message)
	})
	if err != nil {
		return fmt.Errorf("%s (%v)", UserMessage(err), err)
	}

	if dryRun {
		log.Log.Infow("dry run complete", "image", result.ImageURI, "metadata", result.MetadataURI)
		return nil
	}
	log.Log.Infow("submission complete",
		"record_id", result.RecordId,
		"tx", result.TxHash,
		"explorer", result.ExplorerURL,
	)
	return nil
}

// buildAttributes assembles the display attributes in insertion order:
// urgency first, then location, then status, then any extra attributes from
// the metadata files.
func buildAttributes(ctx context.Context) ([]storage.Attribute, error) {
	level := urgency
	if level == "" {
		level = constants.SeverityMedium.String()
		if autoAssess {
			assessor := assess.NewAssessor(assess.WithApiKey(assessApiKey))
			assessment := assessor.Assess(ctx, title, description)
			level = assess.LevelFromConfidence(assessment.Confidence).String()
			log.Log.Infow("urgency assessment",
				"level", assessment.Level,
				"confidence", assessment.Confidence,
				"text", assessment.Text,
			)
		}
	}

	attributes := []storage.Attribute{
		{TraitType: constants.TraitUrgency, Value: level},
	}
	if location != "" {
		attributes = append(attributes, storage.Attribute{TraitType: constants.TraitLocation, Value: location})
	}
	attributes = append(attributes, storage.Attribute{TraitType: constants.TraitStatus, Value: constants.StatusOpen.String()})

	if jsonAttributes != "" {
		extra, err := storage.AttributesFromJsonFile(jsonAttributes)
		if err != nil {
			return nil, err
		}
		attributes = append(attributes, extra...)
	}
	if cborAttributes != "" {
		extra, err := storage.AttributesFromCborFile(cborAttributes)
		if err != nil {
			return nil, err
		}
		attributes = append(attributes, extra...)
	}
	return attributes, nil
}
