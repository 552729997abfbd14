// =============================================================================
// Payslip Ledger - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Payslip Ledger CLI application. It
// delegates command execution to the cmd package.
//
// USAGE:
//   payslip-ledger extract      - Extract records from payslip documents
//   payslip-ledger summary      - Total payments over a date range
//   payslip-ledger additional   - Total a subset of payment categories
//   payslip-ledger gaps         - List months with no payslip
//   payslip-ledger export       - Export records to XLSX, CSV or PDF
//   payslip-ledger validate     - Validate configuration and layouts
//   payslip-ledger version      - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Extraction, aggregation, storage and reporting
//   - pkg/           : Shared file utilities
//   - layouts/       : Per-layout category tables (YAML, optional XLSX)
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/payslip-ledger/cmd"
)

func main() {
	cmd.Execute()
}
