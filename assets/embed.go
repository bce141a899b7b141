package assets

import (
	"bufio"
	"embed"
	"io/fs"
	"strings"
)

//go:embed names.txt sql/*.sql
var FS embed.FS

// Migrations is the sql/ directory, rooted so files are named "001_init.sql" etc.
var Migrations, _ = fs.Sub(FS, "sql")

func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

// NamesList returns the bundled random-username list.
func NamesList() ([]string, error) {
	return readLines("names.txt")
}
