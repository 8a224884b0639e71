package astwalk

// Prune removes event definitions from every contract in u (spec §4.1:
// "remove subtrees irrelevant to step analysis ... events"). Structs, enums
// and user-defined value types are retained when keepTypeInfo is true
// (needed by the view-method synthesizer and evaluator to resolve
// user-defined types), dropped otherwise.
//
// Prune operates in place and also returns u for chaining. It is idempotent:
// calling it twice has the same effect as calling it once, and it never
// touches the SourceRange of any surviving node (spec §4.1 contract).
func Prune(u *SourceUnit, keepTypeInfo bool) *SourceUnit {
	for _, c := range u.Contracts {
		c.Events = nil
		if !keepTypeInfo {
			c.Structs = nil
			c.Enums = nil
			c.UserDefinedValueTypes = nil
		}
	}
	return u
}
