package api

// Resp is the envelope every JSON endpoint answers with: err_no is zero on
// success and the payload rides under data.
type Resp struct {
	ErrNo  Code        `json:"err_no"`
	ErrMsg string      `json:"err_msg"`
	Data   interface{} `json:"data"`
}

// RespOK wraps a successful payload.
func RespOK(data interface{}) Resp {
	return Resp{Data: data}
}

// RespErr builds a failure envelope.
func RespErr(errNo Code, errMsg string) Resp {
	return Resp{
		ErrNo:  errNo,
		ErrMsg: errMsg,
	}
}
