// Package policy decides whether git mutation commands requested by a
// coding agent may proceed automatically, based on the current branch.
// The payload and decision shapes follow the agent's pre-tool-use hook
// contract.
package policy

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
)

// Permission decisions understood by the hook runner.
const (
	DecisionAllow = "allow"
	DecisionAsk   = "ask"
)

// DefaultPrefixes are the branch-name prefixes trusted for automatic
// approval.
var DefaultPrefixes = []string{"claude/"}

// gitMutations are the command prefixes that mutate repository state and
// fall under branch policy.
var gitMutations = []string{"git add", "git commit", "git push"}

// ToolUse is the hook's incoming payload describing a requested tool
// invocation.
type ToolUse struct {
	ToolName  string          `json:"tool_name"`
	ToolInput json.RawMessage `json:"tool_input"`
}

// bashInput is the tool_input shape for shell invocations.
type bashInput struct {
	Command string `json:"command"`
}

// Decision is the hook's outgoing payload. A nil *Decision means the
// invocation is outside this policy and no output is emitted.
type Decision struct {
	HookSpecificOutput Output `json:"hookSpecificOutput"`
}

// Output carries the permission decision and its human-readable reason.
type Output struct {
	PermissionDecision       string `json:"permissionDecision"`
	PermissionDecisionReason string `json:"permissionDecisionReason"`
}

// BranchFunc resolves the current git branch. Split out so tests can run
// without a repository.
type BranchFunc func() (string, error)

// CurrentBranch resolves the branch of the working directory's repository.
func CurrentBranch() (string, error) {
	out, err := exec.Command("git", "rev-parse", "--abbrev-ref", "HEAD").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// IsGitMutation reports whether the invocation is a shell command starting
// with one of the controlled git operations.
func IsGitMutation(in ToolUse) bool {
	if in.ToolName != "Bash" {
		return false
	}

	var b bashInput
	if err := json.Unmarshal(in.ToolInput, &b); err != nil {
		return false
	}

	command := strings.TrimSpace(b.Command)
	for _, op := range gitMutations {
		if strings.HasPrefix(command, op) {
			return true
		}
	}
	return false
}

// HasAutomationPrefix reports whether the branch name carries one of the
// trusted automation prefixes.
func HasAutomationPrefix(branch string, prefixes []string) bool {
	if len(branch) == 0 {
		return false
	}
	for _, p := range prefixes {
		if strings.HasPrefix(branch, p) {
			return true
		}
	}
	return false
}

// Evaluate decides on one hook payload. It returns nil when the
// invocation is not a controlled git operation. Any failure along the way
// resolves to ask, never to allow.
func Evaluate(payload []byte, prefixes []string, branch BranchFunc) *Decision {
	var in ToolUse
	if err := json.Unmarshal(payload, &in); err != nil {
		return ask(fmt.Sprintf("Hook error: %v", err))
	}

	if !IsGitMutation(in) {
		return nil
	}

	name, err := branch()
	if err != nil || !HasAutomationPrefix(name, prefixes) {
		if len(name) == 0 {
			name = "unknown"
		}
		return ask(fmt.Sprintf(
			"Git operations require confirmation on branch '%s' (not an automation branch)", name))
	}

	return &Decision{HookSpecificOutput: Output{
		PermissionDecision:       DecisionAllow,
		PermissionDecisionReason: fmt.Sprintf("Auto-allowing git operation on automation branch '%s'", name),
	}}
}

func ask(reason string) *Decision {
	return &Decision{HookSpecificOutput: Output{
		PermissionDecision:       DecisionAsk,
		PermissionDecisionReason: reason,
	}}
}
