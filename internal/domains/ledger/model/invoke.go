package model

import (
	"context"
	"fmt"
)

// InvokeContext carries one instruction into a program.
type InvokeContext struct {
	ProgramID Pubkey
	Accounts  []*AccountInfo
	Data      []byte

	logs []string
}

// Log appends a program log line to the transaction receipt.
func (ic *InvokeContext) Log(format string, args ...any) {
	ic.logs = append(ic.logs, fmt.Sprintf(format, args...))
}

func (ic *InvokeContext) Logs() []string {
	return ic.logs
}

// Program executes instructions addressed to its id.
type Program interface {
	Name() string
	Process(ctx context.Context, ic *InvokeContext) error
}
