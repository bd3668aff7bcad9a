package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/ctsync/ctsync/assess"
	"github.com/ctsync/ctsync/client"
	"github.com/ctsync/ctsync/constants"
	"github.com/ctsync/ctsync/internal/sentry"
	"github.com/ctsync/ctsync/internal/signal"
	"github.com/ctsync/ctsync/mint"
	"github.com/ctsync/ctsync/pkg/log"
	"github.com/ctsync/ctsync/server/dao"
	"github.com/ctsync/ctsync/server/handle"
	"github.com/ctsync/ctsync/server/tables"
	"github.com/ctsync/ctsync/storage"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

var srvOptions = &SrvOptions{}

// SrvOptions holds the configuration options for the evidence board server.
// Values may come from flags or a yaml config file; flags win when both are
// set.
type SrvOptions struct {
	configFile      string
	RpcListen       string `yaml:"rpc_listen"`
	LedgerURL       string `yaml:"ledger_url"`
	SyncInterval    int    `yaml:"sync_interval"`
	WalletConnect   string `yaml:"wallet_connect"`
	WalletUser      string `yaml:"wallet_user"`
	WalletPassword  string `yaml:"wallet_password"`
	Contract        string `yaml:"contract"`
	StorageEndpoint string `yaml:"storage_endpoint"`
	StorageApiKey   string `yaml:"storage_api_key"`
	AssessApiKey    string `yaml:"assess_api_key"`
	SentryDsn       string `yaml:"sentry_dsn"`
	Mysql           struct {
		Addr     string `yaml:"addr"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		DB       string `yaml:"db"`
	} `yaml:"mysql"`
	EnablePProf bool `yaml:"pprof"`
}

type SrvOption func(*SrvOptions)

// WithRpcListen returns a SrvOption that sets the api listen address.
func WithRpcListen(rpcListen string) SrvOption {
	return func(options *SrvOptions) {
		options.RpcListen = rpcListen
	}
}

// WithLedgerURL returns a SrvOption that sets the ledger query service URL.
func WithLedgerURL(ledgerURL string) SrvOption {
	return func(options *SrvOptions) {
		options.LedgerURL = ledgerURL
	}
}

// WithWalletConnect returns a SrvOption that sets the wallet JSON-RPC URL.
func WithWalletConnect(walletConnect string) SrvOption {
	return func(options *SrvOptions) {
		options.WalletConnect = walletConnect
	}
}

// WithContract returns a SrvOption that sets the anchor contract address.
func WithContract(contract string) SrvOption {
	return func(options *SrvOptions) {
		options.Contract = contract
	}
}

// WithMysqlAddr returns a SrvOption that sets the mysql address.
func WithMysqlAddr(mysqlAddr string) SrvOption {
	return func(options *SrvOptions) {
		options.Mysql.Addr = mysqlAddr
	}
}

// WithMysqlUser returns a SrvOption that sets the mysql user.
func WithMysqlUser(mysqlUser string) SrvOption {
	return func(options *SrvOptions) {
		options.Mysql.User = mysqlUser
	}
}

// WithMysqlPassword returns a SrvOption that sets the mysql password.
func WithMysqlPassword(mysqlPassword string) SrvOption {
	return func(options *SrvOptions) {
		options.Mysql.Password = mysqlPassword
	}
}

// WithMysqlDBName returns a SrvOption that sets the mysql database name.
func WithMysqlDBName(mysqlDBName string) SrvOption {
	return func(options *SrvOptions) {
		options.Mysql.DB = mysqlDBName
	}
}

// WithEnablePProf returns a SrvOption that enables the pprof endpoints.
func WithEnablePProf(enablePProf bool) SrvOption {
	return func(options *SrvOptions) {
		options.EnablePProf = enablePProf
	}
}

var Cmd = &cobra.Command{
	Use:   "server",
	Short: "evidence board api server",
	Run: func(cmd *cobra.Command, args []string) {
		if err := Srv(); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		<-signal.InterruptHandlersDone
	},
}

func init() {
	Cmd.Flags().StringVarP(&srvOptions.configFile, "config", "c", "", "config file path")
	Cmd.Flags().StringVarP(&srvOptions.RpcListen, "rpc_listen", "l", "", "api server listen address (default :8335)")
	Cmd.Flags().StringVarP(&srvOptions.LedgerURL, "ledger_url", "", "", "ledger query service base URL to sync records from")
	Cmd.Flags().IntVarP(&srvOptions.SyncInterval, "sync_interval", "", 30, "ledger sync interval in seconds")
	Cmd.Flags().StringVarP(&srvOptions.WalletConnect, "wallet_rpc_connect", "s", "", "wallet JSON-RPC URL for server side submissions")
	Cmd.Flags().StringVarP(&srvOptions.WalletUser, "wallet_user", "u", "", "wallet rpc server username")
	Cmd.Flags().StringVarP(&srvOptions.WalletPassword, "wallet_password", "P", "", "wallet rpc server password")
	Cmd.Flags().StringVarP(&srvOptions.Contract, "contract", "", "", "anchor contract address")
	Cmd.Flags().StringVarP(&srvOptions.StorageEndpoint, "storage", "", "", "content addressed storage pinning endpoint")
	Cmd.Flags().StringVarP(&srvOptions.StorageApiKey, "storage_key", "", os.Getenv("CTSYNC_STORAGE_KEY"), "storage service api key")
	Cmd.Flags().StringVarP(&srvOptions.AssessApiKey, "assess_key", "", os.Getenv("CTSYNC_ASSESS_KEY"), "urgency assessment api key")
	Cmd.Flags().StringVarP(&srvOptions.SentryDsn, "sentry_dsn", "", "", "sentry dsn")
	Cmd.Flags().StringVarP(&srvOptions.Mysql.Addr, "mysql_addr", "d", "", "record index mysql database addr")
	Cmd.Flags().StringVarP(&srvOptions.Mysql.User, "mysql_user", "", "root", "record index mysql database user")
	Cmd.Flags().StringVarP(&srvOptions.Mysql.Password, "mysql_pass", "", "root", "record index mysql database password")
	Cmd.Flags().StringVarP(&srvOptions.Mysql.DB, "db", "", "", "record index mysql database name")
	Cmd.Flags().BoolVarP(&srvOptions.EnablePProf, "pprof", "", false, "enable pprof")
}

// Srv wires the record index, the ledger syncer, and the api handler, and
// starts the server.
func Srv(opts ...SrvOption) error {
	if srvOptions.configFile != "" {
		configFile, err := os.Open(srvOptions.configFile)
		if err != nil {
			return err
		}
		defer configFile.Close()
		if err := yaml.NewDecoder(configFile).Decode(srvOptions); err != nil {
			return err
		}
	}

	for _, v := range opts {
		v(srvOptions)
	}

	if srvOptions.RpcListen == "" {
		srvOptions.RpcListen = ":8335"
	}
	if srvOptions.Mysql.Addr == "" {
		srvOptions.Mysql.Addr = "127.0.0.1:3306"
	}
	if srvOptions.Mysql.DB == "" {
		srvOptions.Mysql.DB = constants.DefaultDBName
	}
	if srvOptions.SyncInterval <= 0 {
		srvOptions.SyncInterval = 30
	}

	logDir := filepath.Join(constants.AppName, "server", "logs", "srv.log")
	logFile := btcutil.AppDataDir(logDir, false)
	log.InitLogRotator(logFile)

	if srvOptions.SentryDsn != "" {
		if err := sentry.Init(srvOptions.SentryDsn); err != nil {
			return err
		}
	}

	db, err := dao.NewDB(
		dao.WithAddr(srvOptions.Mysql.Addr),
		dao.WithUser(srvOptions.Mysql.User),
		dao.WithPassword(srvOptions.Mysql.Password),
		dao.WithDBName(srvOptions.Mysql.DB),
		dao.WithAutoMigrateTables(tables.Tables...),
	)
	if err != nil {
		return err
	}

	handleOpts := []handle.Option{
		handle.WithDB(db),
		handle.WithAddr(srvOptions.RpcListen),
		handle.WithResolver(storage.NewResolver()),
		handle.WithEnablePProf(srvOptions.EnablePProf),
	}

	if srvOptions.AssessApiKey != "" {
		handleOpts = append(handleOpts, handle.WithAssessor(assess.NewAssessor(
			assess.WithApiKey(srvOptions.AssessApiKey),
		)))
	}

	// Server side submission needs a wallet, the anchor contract, and a
	// pinning endpoint. Without all three the submit endpoint is disabled
	// and the server is read only.
	if srvOptions.WalletConnect != "" && srvOptions.Contract != "" && srvOptions.StorageEndpoint != "" {
		minter, err := newMinter()
		if err != nil {
			return err
		}
		handleOpts = append(handleOpts, handle.WithMinter(minter))
	}

	h, err := handle.New(handleOpts...)
	if err != nil {
		return err
	}
	if err := h.Run(); err != nil {
		return err
	}

	if srvOptions.LedgerURL != "" {
		syncer := NewSyncer(
			WithSyncDB(db),
			WithSyncLedger(client.NewLedgerClient(srvOptions.LedgerURL)),
			WithSyncInterval(time.Duration(srvOptions.SyncInterval)*time.Second),
		)
		syncer.Start()
		signal.AddInterruptHandler(func() {
			syncer.Stop()
		})
	}
	return nil
}

func newMinter() (*mint.Minter, error) {
	cli, err := client.NewClient(
		client.WithURL(srvOptions.WalletConnect),
		client.WithBasicAuth(srvOptions.WalletUser, srvOptions.WalletPassword),
	)
	if err != nil {
		return nil, err
	}
	wallet, err := client.Connect(context.Background(), cli)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, fmt.Errorf("wallet has no accounts")
	}
	addresser, err := storage.NewAddresser(
		storage.WithEndpoint(srvOptions.StorageEndpoint),
		storage.WithApiKey(srvOptions.StorageApiKey),
	)
	if err != nil {
		return nil, err
	}
	return mint.NewMinter(
		mint.WithSigner(wallet),
		mint.WithConfirmer(wallet),
		mint.WithAddresser(addresser),
		mint.WithBuilder(storage.NewBuilder(addresser)),
		mint.WithContract(srvOptions.Contract),
	)
}
