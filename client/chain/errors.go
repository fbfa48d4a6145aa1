package chain

import (
	"fmt"

	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"github.com/pkg/errors"
)

// TxError is a failed transaction together with the program log lines the
// cluster reported for it.
type TxError struct {
	Err  error
	Logs []string
}

func (e *TxError) Error() string {
	return e.Err.Error()
}

func (e *TxError) Unwrap() error {
	return e.Err
}

// LogsFromError returns the program logs carried anywhere in err's chain.
func LogsFromError(err error) []string {
	var txErr *TxError
	if errors.As(err, &txErr) {
		return txErr.Logs
	}
	return nil
}

func wrapSendError(err error) error {
	var rpcErr *jsonrpc.RPCError
	if !errors.As(err, &rpcErr) {
		return errors.Wrap(err, "failed to send transaction")
	}

	return &TxError{
		Err:  errors.New(rpcErr.Message),
		Logs: logsFromData(rpcErr.Data),
	}
}

// logsFromData reads the "logs" entry of a preflight simulation failure.
func logsFromData(data interface{}) []string {
	fields, ok := data.(map[string]interface{})
	if !ok {
		return nil
	}

	raw, ok := fields["logs"].([]interface{})
	if !ok {
		return nil
	}

	logs := make([]string, 0, len(raw))
	for _, line := range raw {
		logs = append(logs, fmt.Sprint(line))
	}
	return logs
}
