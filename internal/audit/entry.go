package audit

import (
	"github.com/google/uuid"

	"github.com/ppiankov/stubguard/internal/boot"
)

// Entry is one line in the hash-chained JSONL decision log.
// Fields are plain struct fields so json.Marshal output is deterministic
// for hashing.
type Entry struct {
	Timestamp  string `json:"ts"`
	DecisionID string `json:"decision_id"`
	Secure     bool   `json:"secure"`
	Builtin    string `json:"builtin"`
	Runtime    string `json:"runtime"`
	Cmdline    string `json:"cmdline"`
	Outcome    string `json:"outcome"`
	Category   string `json:"category,omitempty"`
	Diagnostic string `json:"diagnostic,omitempty"`
	PolicyHash string `json:"policy_hash"`
	PrevHash   string `json:"prev_hash"`
}

// EntryFromDecision builds an entry for one boot decision.
func EntryFromDecision(d boot.Decision, builtin, runtime []byte, policyHash string) Entry {
	e := Entry{
		DecisionID: uuid.NewString(),
		Secure:     d.Secure,
		Builtin:    string(builtin),
		Runtime:    string(runtime),
		Cmdline:    d.Cmdline,
		Outcome:    string(d.Outcome),
		Diagnostic: d.Diagnostic,
		PolicyHash: policyHash,
	}
	if d.Diagnostic != "" {
		e.Category = d.Category.String()
	}
	return e
}
