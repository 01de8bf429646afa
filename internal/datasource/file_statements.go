package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// FileStatementSource implements StatementSource over a local JSON file
// of exported statements, the ingestion path for desk analysts working
// from spreadsheet extracts.
type FileStatementSource struct {
	path string
}

// NewFileStatementSource creates a statement source reading from path
func NewFileStatementSource(path string) *FileStatementSource {
	return &FileStatementSource{path: path}
}

// Name returns the data source name
func (f *FileStatementSource) Name() string {
	return "file"
}

// FetchStatements reads all statements for a company from the file.
// An empty companyName returns every record in the file.
func (f *FileStatementSource) FetchStatements(ctx context.Context, companyName string) ([]StatementData, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, NewDataSourceError("file", ErrCodeNotFound,
			fmt.Sprintf("failed to read %s", f.path), err)
	}

	var statements []StatementData
	if err := json.Unmarshal(data, &statements); err != nil {
		return nil, NewDataSourceError("file", ErrCodeInvalidData, "failed to parse statements file", err)
	}

	if companyName == "" {
		return statements, nil
	}

	var matched []StatementData
	for _, stmt := range statements {
		if strings.EqualFold(strings.TrimSpace(stmt.CompanyName), strings.TrimSpace(companyName)) {
			matched = append(matched, stmt)
		}
	}

	if len(matched) == 0 {
		return nil, NewDataSourceError("file", ErrCodeNotFound,
			fmt.Sprintf("no statements for company %q", companyName), nil)
	}

	return matched, nil
}
