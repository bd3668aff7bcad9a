package api

type Code = int

// common
const (
	CodeSuccess       Code = 0
	CodeError500      Code = 500
	CodeParamsInvalid Code = 10000
	CodeDbError       Code = 10002
	CodeNotFound      Code = 10003
	CodeConflict      Code = 10004
	CodeMintFailed    Code = 10005
)
