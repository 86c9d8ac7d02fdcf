package dicomdict

import "github.com/gobwas/glob"

// compileAliasGlob compiles a wildcard pattern with gobwas/glob into a
// reusable predicate over Entry.Alias.
func compileAliasGlob(pattern string) (func(alias string) bool, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return g.Match, nil
}
