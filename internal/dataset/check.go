package dataset

import (
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
)

// Preview summarises one historical table for a pre-flight check.
type Preview struct {
	Name    string
	Path    string
	Rows    int
	Columns []string
	Head    dataframe.DataFrame
}

// Check verifies that every historical table is present and returns the first
// n rows of each.
func Check(dir string, n int) ([]Preview, error) {
	tables, err := LoadTables(dir)
	if err != nil {
		return nil, err
	}

	frames := []dataframe.DataFrame{tables.Races, tables.Results, tables.Drivers, tables.Qualifying}
	previews := make([]Preview, 0, len(frames))
	for i, df := range frames {
		previews = append(previews, Preview{
			Name:    TableFiles[i],
			Path:    filepath.Join(dir, TableFiles[i]),
			Rows:    df.Nrow(),
			Columns: df.Names(),
			Head:    head(df, n),
		})
	}
	return previews, nil
}

func head(df dataframe.DataFrame, n int) dataframe.DataFrame {
	if n > df.Nrow() {
		n = df.Nrow()
	}
	if n <= 0 {
		return dataframe.DataFrame{}
	}
	indexes := make([]int, n)
	for i := range indexes {
		indexes[i] = i
	}
	return df.Subset(indexes)
}
