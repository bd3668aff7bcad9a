package client

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ctsync/ctsync/internal/util"
	"github.com/shopspring/decimal"
)

// CodeUserRejected is the EIP-1193 error code a wallet reports when the
// user declines to sign.
const CodeUserRejected = 4001

// Signer is the wallet collaborator: a connected identity that can report
// its network, balance, and sign-and-broadcast a transaction. A nil Signer
// means no wallet is connected.
type Signer interface {
	Address() string
	ChainId(ctx context.Context) (uint64, error)
	Balance(ctx context.Context) (decimal.Decimal, error)
	SendTransaction(ctx context.Context, tx *TxRequest) (string, error)
}

// TxRequest is the payload handed to the wallet for signing and broadcast.
type TxRequest struct {
	From  string `json:"from" validate:"required"`
	To    string `json:"to" validate:"required"`
	Value string `json:"value,omitempty"`
	Data  string `json:"data,omitempty"`
}

// WalletClient implements Signer over an Ethereum JSON-RPC wallet endpoint.
type WalletClient struct {
	*Client
	address string
}

func NewWalletClient(cli *Client, address string) *WalletClient {
	return &WalletClient{Client: cli, address: address}
}

// Connect returns the wallet's first account as a WalletClient, or nil when
// the endpoint reports no accounts. A nil return models the disconnected
// wallet state.
func Connect(ctx context.Context, cli *Client) (*WalletClient, error) {
	accounts := make([]string, 0)
	if err := cli.SendRequest(ctx, "eth_accounts", &accounts); err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, nil
	}
	return NewWalletClient(cli, accounts[0]), nil
}

func (w *WalletClient) Address() string {
	return w.address
}

func (w *WalletClient) ChainId(ctx context.Context) (uint64, error) {
	chainIdHex := new(string)
	if err := w.SendRequest(ctx, "eth_chainId", chainIdHex); err != nil {
		return 0, err
	}
	return util.HexToUint64(*chainIdHex)
}

// Balance returns the signer's balance in wei.
func (w *WalletClient) Balance(ctx context.Context) (decimal.Decimal, error) {
	balanceHex := new(string)
	if err := w.SendRequest(ctx, "eth_getBalance", balanceHex, w.address, "latest"); err != nil {
		return decimal.Zero, err
	}
	wei, err := util.HexToBigInt(*balanceHex)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromBigInt(wei, 0), nil
}

// SendTransaction asks the wallet to sign and broadcast tx, returning the
// transaction hash. A *RPCError with CodeUserRejected means the user
// cancelled in the wallet.
func (w *WalletClient) SendTransaction(ctx context.Context, tx *TxRequest) (string, error) {
	if tx.From == "" {
		tx.From = w.address
	}
	if err := validate.Struct(tx); err != nil {
		return "", err
	}
	txHash := new(string)
	if err := w.SendRequest(ctx, "eth_sendTransaction", txHash, tx); err != nil {
		return "", err
	}
	return *txHash, nil
}

// Receipt is the confirmation the ledger returns for a broadcast
// transaction.
type Receipt struct {
	TransactionHash string       `json:"transactionHash"`
	Status          string       `json:"status"`
	BlockNumber     string       `json:"blockNumber"`
	Logs            []ReceiptLog `json:"logs"`
}

type ReceiptLog struct {
	Address string   `json:"address"`
	Topics  []string `json:"topics"`
	Data    string   `json:"data"`
}

// Ok reports whether the transaction executed successfully.
func (r *Receipt) Ok() bool {
	return r.Status == "0x1"
}

// RecordId extracts the assigned record identifier from the anchoring
// event: the token id topic of the ERC-721 Transfer log, rendered decimal.
func (r *Receipt) RecordId() (string, error) {
	for _, l := range r.Logs {
		if len(l.Topics) == 4 && strings.HasPrefix(l.Topics[0], transferTopicPrefix) {
			id, err := util.HexToBigInt(l.Topics[3])
			if err != nil {
				return "", err
			}
			return id.String(), nil
		}
	}
	return "", fmt.Errorf("receipt %s carries no transfer log", r.TransactionHash)
}

// transferTopicPrefix is keccak256("Transfer(address,address,uint256)").
const transferTopicPrefix = "0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"

// TransactionReceipt fetches the receipt for txHash, returning (nil, nil)
// while the transaction is still pending.
func (w *WalletClient) TransactionReceipt(ctx context.Context, txHash string) (*Receipt, error) {
	receipt := &Receipt{}
	if err := w.SendRequest(ctx, "eth_getTransactionReceipt", receipt, txHash); err != nil {
		return nil, err
	}
	if receipt.TransactionHash == "" {
		return nil, nil
	}
	return receipt, nil
}

// EncodeAnchorData hex-encodes the metadata URI for the anchoring
// transaction's data field.
func EncodeAnchorData(metadataURI string) string {
	return "0x" + hex.EncodeToString([]byte(metadataURI))
}
