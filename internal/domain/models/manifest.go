package models

import (
	"encoding/json"
	"maps"
	"slices"
	"time"

	"github.com/grugslair/blob-arena-contracts/internal/domain"
)

// DeploymentStatus records whether a deployment's transaction landed
type DeploymentStatus string

const (
	DeploymentConfirmed DeploymentStatus = "confirmed"
	DeploymentFailed    DeploymentStatus = "failed"
)

// Contract is a deployed (or externally known) contract instance
type Contract struct {
	Tag             string `json:"tag,omitempty"`
	ContractAddress string `json:"contract_address"`
	ClassHash       string `json:"class_hash,omitempty"`
	Class           string `json:"class,omitempty"` // class tag, when deployed from one
}

// Deployment is the full record of a UDC deployment
type Deployment struct {
	Contract

	Salt                string           `json:"salt"`
	Unique              bool             `json:"unique"`
	Calldata            any              `json:"calldata,omitempty"` // as written in the profile
	ConstructorCalldata []string         `json:"constructor_calldata"`
	DeployerAddress     string           `json:"deployer_address,omitempty"`
	TransactionHash     string           `json:"transaction_hash,omitempty"`
	Status              DeploymentStatus `json:"status,omitempty"`
	DeployedAt          time.Time        `json:"deployed_at,omitzero"`
}

// Class is a declared contract class
type Class struct {
	Tag       string `json:"tag,omitempty"`
	ClassHash string `json:"class_hash"`
}

// Declaration records the transaction that declared a class
type Declaration struct {
	ClassHash         string `json:"class_hash"`
	CompiledClassHash string `json:"compiled_class_hash,omitempty"`
	TransactionHash   string `json:"transaction_hash"`
}

// Manifest is the persisted state of one profile
type Manifest struct {
	Deployments  map[string]*Deployment     `json:"deployments"`
	Classes      map[string]*Class          `json:"classes"`
	Contracts    map[string]*Contract       `json:"contracts"`
	Declarations map[string]*Declaration    `json:"declarations"`
	ABIs         map[string]json.RawMessage `json:"abis"` // keyed by class hash

	dirty bool
}

// NewManifest returns an empty manifest with all sections allocated
func NewManifest() *Manifest {
	m := &Manifest{}
	m.ensure()
	return m
}

func (m *Manifest) ensure() {
	if m.Deployments == nil {
		m.Deployments = map[string]*Deployment{}
	}
	if m.Classes == nil {
		m.Classes = map[string]*Class{}
	}
	if m.Contracts == nil {
		m.Contracts = map[string]*Contract{}
	}
	if m.Declarations == nil {
		m.Declarations = map[string]*Declaration{}
	}
	if m.ABIs == nil {
		m.ABIs = map[string]json.RawMessage{}
	}
}

// Merge copies every entry of other over m; entries of other win.
func (m *Manifest) Merge(other *Manifest) {
	m.ensure()
	if other == nil {
		return
	}
	maps.Copy(m.Deployments, other.Deployments)
	maps.Copy(m.Classes, other.Classes)
	maps.Copy(m.Contracts, other.Contracts)
	maps.Copy(m.Declarations, other.Declarations)
	maps.Copy(m.ABIs, other.ABIs)
}

// AddClass registers a class and, when given, its ABI
func (m *Manifest) AddClass(tag, classHash string, abi json.RawMessage) {
	m.ensure()
	m.Classes[tag] = &Class{Tag: tag, ClassHash: classHash}
	if len(abi) > 0 {
		m.ABIs[classHash] = abi
	}
	m.dirty = true
}

// CacheABI stores the ABI of a class hash
func (m *Manifest) CacheABI(classHash string, abi json.RawMessage) {
	m.ensure()
	m.ABIs[classHash] = abi
	m.dirty = true
}

// SetContractClassHash fills in the class hash of a known contract
func (m *Manifest) SetContractClassHash(tag, classHash string) {
	if c, ok := m.Contracts[tag]; ok {
		c.ClassHash = classHash
		m.dirty = true
	}
}

// Dirty reports whether m changed since it was loaded or created
func (m *Manifest) Dirty() bool {
	return m.dirty
}

// MarkClean resets the change flag after m was persisted
func (m *Manifest) MarkClean() {
	m.dirty = false
}

// AddDeclaration records a declare transaction
func (m *Manifest) AddDeclaration(tag string, d *Declaration) {
	m.ensure()
	m.Declarations[tag] = d
	m.dirty = true
}

// AddDeployment replaces the contract entry for tag. An existing confirmed
// deployment record keeps its fields; a failed one is overwritten.
func (m *Manifest) AddDeployment(d *Deployment) {
	m.ensure()
	c := d.Contract
	m.Contracts[d.Tag] = &c
	m.dirty = true

	if prev, ok := m.Deployments[d.Tag]; ok && prev.Status != DeploymentFailed {
		return
	}
	m.Deployments[d.Tag] = d
}

// ContractTags returns the sorted contract tags
func (m *Manifest) ContractTags() []string {
	return slices.Sorted(maps.Keys(m.Contracts))
}

// ClassTags returns the sorted class tags
func (m *Manifest) ClassTags() []string {
	return slices.Sorted(maps.Keys(m.Classes))
}

// Contract looks up a contract by tag
func (m *Manifest) Contract(tag string) (*Contract, error) {
	if c, ok := m.Contracts[tag]; ok {
		return c, nil
	}
	return nil, domain.NewTagNotFound("contract", tag, m.ContractTags())
}

// Class looks up a class by tag
func (m *Manifest) Class(tag string) (*Class, error) {
	if c, ok := m.Classes[tag]; ok {
		return c, nil
	}
	return nil, domain.NewTagNotFound("class", tag, m.ClassTags())
}

// ABI returns the cached ABI of a class hash, if any
func (m *Manifest) ABI(classHash string) (json.RawMessage, bool) {
	abi, ok := m.ABIs[classHash]
	return abi, ok && len(abi) > 0
}
