package main

import (
	"errors"

	"github.com/smb3go/smb3/internal/ntlm"
)

// newNTLMEngine wires up the NTLM/GSS authentication collaborator the smb3
// package drives but does not implement (see internal/ntlm). This example
// CLI does not vendor an NTLM message generator — the library's scope
// stops at the ntlm.Engine interface — so this adapter is the extension
// point a real deployment fills in with a Windows SSPI binding, an
// NTLMSSP implementation, or a Kerberos-via-GSS bridge.
type placeholderNTLMEngine struct {
	domain, username, password string
}

func newNTLMEngine(domain, username, password string) ntlm.Engine {
	return &placeholderNTLMEngine{domain: domain, username: username, password: password}
}

var errNoNTLMEngineWired = errors.New(
	"smb3get: no NTLM engine wired; replace newNTLMEngine with a real NTLMSSP/GSS implementation")

func (p *placeholderNTLMEngine) Step([]byte) ([]byte, ntlm.StepStatus, error) {
	return nil, ntlm.StatusDone, errNoNTLMEngineWired
}

func (p *placeholderNTLMEngine) SessionKey() ([16]byte, error) {
	return [16]byte{}, errNoNTLMEngineWired
}
