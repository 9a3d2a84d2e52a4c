package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/grugslair/blob-arena-contracts/internal/domain/models"
	"github.com/grugslair/blob-arena-contracts/internal/usecase"
	"github.com/grugslair/blob-arena-contracts/pkg/cairo"
)

// ContractsRenderer renders manifest contents
type ContractsRenderer struct {
	out  io.Writer
	json bool
}

// NewContractsRenderer creates a new contracts renderer
func NewContractsRenderer(out io.Writer, json bool) *ContractsRenderer {
	return &ContractsRenderer{out: out, json: json}
}

// RenderList renders the contract listing
func (r *ContractsRenderer) RenderList(result *usecase.ListContractsResult) error {
	if r.json {
		return JSON(r.out, result)
	}
	if len(result.Contracts) == 0 && len(result.Classes) == 0 {
		fmt.Fprintln(r.out, "No contracts found")
		return nil
	}

	if len(result.Contracts) > 0 {
		sectionStyle.Fprintln(r.out, "Contracts")
		t := newTable(r.out)
		t.AppendHeader(table.Row{"Tag", "Address", "Class", "Status"})
		for _, c := range result.Contracts {
			class := c.Class
			if class == "" {
				class = hashStyle.Sprint(short(c.ClassHash))
			}
			t.AppendRow(table.Row{tagStyle.Sprint(c.Tag), addressStyle.Sprint(c.ContractAddress), class, status(c.Status)})
		}
		t.Render()
		fmt.Fprintln(r.out)
	}

	if len(result.Classes) > 0 {
		sectionStyle.Fprintln(r.out, "Classes")
		t := newTable(r.out)
		t.AppendHeader(table.Row{"Tag", "Class Hash"})
		for _, c := range result.Classes {
			t.AppendRow(table.Row{tagStyle.Sprint(c.Tag), addressStyle.Sprint(c.ClassHash)})
		}
		t.Render()
		fmt.Fprintln(r.out)
	}

	s := result.Summary
	fmt.Fprintf(r.out, "%d contracts, %d classes (%d declared)", s.Contracts, s.Classes, s.Declared)
	if s.Failed > 0 {
		failedStyle.Fprintf(r.out, ", %d failed", s.Failed)
	}
	fmt.Fprintln(r.out)
	return nil
}

func status(s models.DeploymentStatus) string {
	switch s {
	case models.DeploymentFailed:
		return failedStyle.Sprint(string(s))
	case models.DeploymentConfirmed:
		return successStyle.Sprint(string(s))
	case "":
		return hashStyle.Sprint("external")
	}
	return string(s)
}

// RenderShow renders one contract with its deployment record
func (r *ContractsRenderer) RenderShow(result *usecase.ShowContractResult) error {
	if r.json {
		return JSON(r.out, result)
	}
	c := result.Contract
	tagStyle.Fprintln(r.out, c.Tag)
	field(r.out, "Address", c.ContractAddress)
	field(r.out, "Class Hash", c.ClassHash)
	field(r.out, "Class", c.Class)
	if d := result.Declaration; d != nil {
		field(r.out, "Compiled Class Hash", d.CompiledClassHash)
		field(r.out, "Declared In", d.TransactionHash)
	}
	if d := result.Deployment; d != nil {
		fmt.Fprintln(r.out)
		sectionStyle.Fprintln(r.out, "Deployment")
		field(r.out, "Status", status(d.Status))
		field(r.out, "Salt", d.Salt)
		field(r.out, "Unique", fmt.Sprint(d.Unique))
		field(r.out, "Deployer", d.DeployerAddress)
		field(r.out, "Transaction", d.TransactionHash)
		if !d.DeployedAt.IsZero() {
			field(r.out, "Deployed At", d.DeployedAt.Local().Format("2006-01-02 15:04:05"))
		}
		if len(d.ConstructorCalldata) > 0 {
			field(r.out, "Constructor", "["+strings.Join(d.ConstructorCalldata, ", ")+"]")
		}
	}
	if len(result.Functions) > 0 {
		fmt.Fprintln(r.out)
		sectionStyle.Fprintln(r.out, "Functions")
		for _, fn := range result.Functions {
			fmt.Fprintf(r.out, "  %s\n", signature(fn))
		}
	}
	return nil
}

func field(out io.Writer, name, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(out, "  %-20s %s\n", name+":", value)
}

func signature(fn *cairo.Function) string {
	params := make([]string, len(fn.Inputs))
	for i, p := range fn.Inputs {
		params[i] = p.Name + ": " + p.Type
	}
	s := functionStyle.Sprint(fn.Name) + "(" + strings.Join(params, ", ") + ")"
	if len(fn.Outputs) > 0 {
		outs := make([]string, len(fn.Outputs))
		for i, p := range fn.Outputs {
			outs[i] = p.Type
		}
		s += " -> " + strings.Join(outs, ", ")
	}
	if fn.IsView() {
		s += hashStyle.Sprint(" [view]")
	}
	return s
}

// RenderCall renders the result of a view call
func (r *ContractsRenderer) RenderCall(result *usecase.CallViewResult) error {
	if r.json {
		return JSON(r.out, map[string]any{
			"tag":        result.Tag,
			"entrypoint": result.Entrypoint,
			"raw":        result.Raw,
			"value":      result.Value,
		})
	}
	if result.Value == nil {
		fmt.Fprintf(r.out, "[%s]\n", strings.Join(result.Raw, ", "))
		return nil
	}
	return JSON(r.out, result.Value)
}

// RenderClassHash renders computed class hashes
func (r *ContractsRenderer) RenderClassHash(result *usecase.ComputeClassHashResult) error {
	if r.json {
		return JSON(r.out, result)
	}
	field(r.out, "Sierra", relPath(result.SierraPath))
	field(r.out, "Class Hash", result.ClassHash)
	if result.CasmPath != "" {
		field(r.out, "Casm", relPath(result.CasmPath))
		field(r.out, "Compiled Class Hash", result.CompiledClassHash)
	}
	return nil
}
