package constants

import "time"

const (
	AppName = "ctsync"

	DefaultDBName = "ctsync"

	// ChainIdSepolia is the only network the board anchors to.
	ChainIdSepolia = uint64(11155111)

	// MinBalanceEther is the minimum signer balance required before a
	// submission is attempted, expressed in ether.
	MinBalanceEther = "0.001"

	// MaxUploadBytes is the evidence size ceiling enforced before any
	// bytes reach the storage backend.
	MaxUploadBytes = 100 << 20

	// AssessTimeout bounds the urgency assessment call. The assessor
	// degrades to a neutral fallback when the deadline passes.
	AssessTimeout = 10 * time.Second

	// ConfirmWait bounds the confirmation poll after broadcast.
	ConfirmWait = 2 * time.Minute

	NativeScheme     = "ipfs://"
	GatewaySegment   = "/ipfs/"
	ExplorerTxPrefix = "https://sepolia.etherscan.io/tx/"
)

// Gateways is the fixed, ordered mirror list used at read time. Order is
// deterministic so resolution behavior is reproducible across sessions.
var Gateways = []string{
	"https://ipfs.io/ipfs/",
	"https://cloudflare-ipfs.com/ipfs/",
	"https://dweb.link/ipfs/",
	"https://gateway.pinata.cloud/ipfs/",
}

type Severity string

func (s Severity) String() string {
	return string(s)
}

const (
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

type Status string

func (s Status) String() string {
	return string(s)
}

const (
	StatusOpen     Status = "Open"
	StatusResolved Status = "Resolved"
)

const (
	TraitStatus   = "Status"
	TraitUrgency  = "Urgency"
	TraitSeverity = "Severity"
	TraitLocation = "Location"
)
