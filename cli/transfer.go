package cli

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"catalog/usecase"

	"github.com/spf13/cobra"
)

// importRecord accepts both create requests and exported products, so an
// export can be imported into another store.
type importRecord struct {
	usecase.CreateProductRequest
	StockQuantity *int `json:"stockQuantity,omitempty"`
}

func (r importRecord) request() usecase.CreateProductRequest {
	req := r.CreateProductRequest
	if req.InitialStock == 0 && r.StockQuantity != nil {
		req.InitialStock = *r.StockQuantity
	}
	return req
}

// decodeImport reads a JSON array, or NDJSON / a single object otherwise.
func decodeImport(b []byte) ([]usecase.CreateProductRequest, error) {
	btrim := bytes.TrimSpace(b)
	if len(btrim) == 0 {
		return nil, errors.New("empty file")
	}

	var records []importRecord
	if btrim[0] == '[' {
		if err := json.Unmarshal(btrim, &records); err != nil {
			return nil, err
		}
	} else {
		scanner := bufio.NewScanner(bytes.NewReader(btrim))
		scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
		line := 0
		for scanner.Scan() {
			line++
			raw := bytes.TrimSpace(scanner.Bytes())
			if len(raw) == 0 {
				continue
			}
			var r importRecord
			if err := json.Unmarshal(raw, &r); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			records = append(records, r)
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}

	reqs := make([]usecase.CreateProductRequest, 0, len(records))
	for _, r := range records {
		reqs = append(reqs, r.request())
	}
	return reqs, nil
}

func isNDJSON(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ndjson", ".jsonl":
		return true
	}
	return false
}

func encodeExport(path string, products []usecase.ProductResponse) ([]byte, error) {
	if !isNDJSON(path) {
		return json.MarshalIndent(products, "", "  ")
	}
	var buf bytes.Buffer
	for _, p := range products {
		line, err := json.Marshal(p)
		if err != nil {
			return nil, err
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func init() {
	// import
	var importFile string
	importCmd := &cobra.Command{
		Use:   "import --file <file>",
		Short: "Import products from a JSON array or NDJSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if importFile == "" {
				return errors.New("--file required")
			}
			b, err := os.ReadFile(importFile)
			if err != nil {
				return err
			}
			reqs, err := decodeImport(b)
			if err != nil {
				return err
			}

			created, err := app.Catalog.Import.Execute(cmd.Context(), reqs)
			fmt.Printf("imported %d of %d products\n", len(created), len(reqs))
			if err != nil {
				slog.Error("import incomplete", "file", importFile, "error", err)
			}
			return err
		},
	}
	importCmd.Flags().StringVar(&importFile, "file", "", "input file")
	rootCmd.AddCommand(importCmd)

	// export
	var exportFile string
	var exportActive bool
	exportCmd := &cobra.Command{
		Use:   "export --file <file>",
		Short: "Export products to JSON (or NDJSON for .ndjson/.jsonl files)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if exportFile == "" {
				return errors.New("--file required")
			}
			var (
				out []usecase.ProductResponse
				err error
			)
			if exportActive {
				out, err = app.Catalog.List.Execute(cmd.Context())
			} else {
				out, err = app.Catalog.Search.Execute(cmd.Context(), "")
			}
			if err != nil {
				return err
			}
			b, err := encodeExport(exportFile, out)
			if err != nil {
				return err
			}
			if dir := filepath.Dir(exportFile); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return err
				}
			}
			return os.WriteFile(exportFile, b, 0o644)
		},
	}
	exportCmd.Flags().StringVar(&exportFile, "file", "", "output file")
	exportCmd.Flags().BoolVar(&exportActive, "active", false, "export only active products")
	rootCmd.AddCommand(exportCmd)
}
