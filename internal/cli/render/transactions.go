package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/grugslair/blob-arena-contracts/internal/usecase"
	"github.com/grugslair/blob-arena-contracts/pkg/cairo"
)

// TransactionRenderer renders the outcome of commands that send transactions
type TransactionRenderer struct {
	out  io.Writer
	json bool
}

// NewTransactionRenderer creates a new transaction renderer
func NewTransactionRenderer(out io.Writer, json bool) *TransactionRenderer {
	return &TransactionRenderer{out: out, json: json}
}

// RenderDeclare renders declared classes
func (r *TransactionRenderer) RenderDeclare(result *usecase.DeclareClassesResult) error {
	if r.json {
		return JSON(r.out, result)
	}
	r.declare(result)
	return nil
}

func (r *TransactionRenderer) declare(result *usecase.DeclareClassesResult) {
	sectionStyle.Fprintln(r.out, "Classes")
	if len(result.Classes) == 0 {
		fmt.Fprintln(r.out, "  nothing to declare")
		return
	}
	t := newTable(r.out)
	t.AppendHeader(table.Row{"Tag", "Class Hash", "Status", "Transaction"})
	for _, c := range result.Classes {
		status := successStyle.Sprint("declared")
		switch {
		case c.AlreadyDeclared:
			status = skippedStyle.Sprint("already declared")
		case result.DryRun:
			status = dryRunStyle.Sprint("would declare")
		}
		t.AppendRow(table.Row{tagStyle.Sprint(c.Tag), addressStyle.Sprint(c.ClassHash), status, hashStyle.Sprint(short(c.TransactionHash))})
	}
	t.Render()
	dryRunBanner(r.out, result.DryRun)
}

// RenderDeploy renders deployed contracts
func (r *TransactionRenderer) RenderDeploy(result *usecase.DeployContractsResult) error {
	if r.json {
		return JSON(r.out, result)
	}
	r.deploy(result)
	return nil
}

func (r *TransactionRenderer) deploy(result *usecase.DeployContractsResult) {
	sectionStyle.Fprintln(r.out, "Contracts")
	if len(result.Contracts) == 0 {
		fmt.Fprintln(r.out, "  nothing to deploy")
		return
	}
	t := newTable(r.out)
	t.AppendHeader(table.Row{"Tag", "Address", "Class Hash", "Status"})
	for _, c := range result.Contracts {
		status := successStyle.Sprint("deployed")
		switch {
		case c.Failed:
			status = failedStyle.Sprint("failed")
		case c.AlreadyDeployed:
			status = skippedStyle.Sprint("already deployed")
		case result.DryRun:
			status = dryRunStyle.Sprint("would deploy")
		}
		t.AppendRow(table.Row{tagStyle.Sprint(c.Tag), addressStyle.Sprint(c.ContractAddress), hashStyle.Sprint(short(c.ClassHash)), status})
	}
	t.Render()
	if result.TransactionHash != "" {
		fmt.Fprintf(r.out, "Transaction: %s\n", result.TransactionHash)
	}
	dryRunBanner(r.out, result.DryRun)
}

// RenderPredict renders predicted deployment addresses
func (r *TransactionRenderer) RenderPredict(result *usecase.PredictAddressResult) error {
	if r.json {
		rows := make([]map[string]any, len(result.Deployments))
		for i, d := range result.Deployments {
			rows[i] = map[string]any{
				"tag":                  d.Tag,
				"class":                d.ClassTag,
				"class_hash":           cairo.Hex(d.ClassHash),
				"salt":                 cairo.Hex(d.Salt),
				"unique":               d.Unique,
				"constructor_calldata": cairo.HexAll(d.Constructor),
				"contract_address":     cairo.Hex(d.Address),
			}
		}
		return JSON(r.out, rows)
	}
	t := newTable(r.out)
	t.AppendHeader(table.Row{"Tag", "Address", "Class", "Salt", "Unique"})
	for _, d := range result.Deployments {
		t.AppendRow(table.Row{tagStyle.Sprint(d.Tag), addressStyle.Sprint(cairo.Hex(d.Address)), d.ClassTag, hashStyle.Sprint(short(cairo.Hex(d.Salt))), d.Unique})
	}
	t.Render()
	return nil
}

// RenderExecution renders sent (or prepared) multicall batches
func (r *TransactionRenderer) RenderExecution(result *usecase.ExecuteCallsResult) error {
	if r.json {
		return JSON(r.out, result)
	}
	r.execution(result)
	return nil
}

func (r *TransactionRenderer) execution(result *usecase.ExecuteCallsResult) {
	for i, batch := range result.Batches {
		header := fmt.Sprintf("Batch %d/%d", i+1, len(result.Batches))
		if batch.TransactionHash != "" {
			header += ": " + batch.TransactionHash
		}
		sectionStyle.Fprintln(r.out, header)
		for _, call := range batch.Calls {
			fmt.Fprintf(r.out, "  %s\n", call.String())
			if result.DryRun {
				fmt.Fprintf(r.out, "    %s %s [%s]\n",
					hashStyle.Sprint(call.ContractAddress),
					functionStyle.Sprint(call.Entrypoint),
					strings.Join(call.Calldata, ", "))
			}
		}
		for _, ret := range batch.Returns {
			fmt.Fprintf(r.out, "  returned [%s]\n", strings.Join(ret, ", "))
		}
	}
	dryRunBanner(r.out, result.DryRun)
}

// RenderSeed renders seeded game data
func (r *TransactionRenderer) RenderSeed(result *usecase.SeedGameDataResult) error {
	if r.json {
		return JSON(r.out, result)
	}
	if result.Execution != nil {
		r.execution(result.Execution)
	}
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%d calls", len(result.Calls))))
	return nil
}

// RenderGrant renders granted permissions
func (r *TransactionRenderer) RenderGrant(result *usecase.GrantPermissionsResult) error {
	if r.json {
		return JSON(r.out, result)
	}
	if len(result.Calls) == 0 {
		fmt.Fprintln(r.out, "No permissions to grant")
		return nil
	}
	if result.Execution != nil {
		r.execution(result.Execution)
	}
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%d permission calls", len(result.Calls))))
	return nil
}

// RenderMigrate renders each migration step that ran
func (r *TransactionRenderer) RenderMigrate(result *usecase.MigrateResult) error {
	if r.json {
		return JSON(r.out, result)
	}
	if result.Declare != nil {
		r.declare(result.Declare)
	}
	if result.Deploy != nil {
		r.deploy(result.Deploy)
	}
	if result.Grant != nil {
		sectionStyle.Fprintln(r.out, "Permissions")
		if result.Grant.Execution != nil {
			r.execution(result.Grant.Execution)
		} else {
			fmt.Fprintln(r.out, "  nothing to grant")
		}
	}
	return nil
}
