package workspace

// Cycles returns the dependency cycles among units, following only
// dependencies that are themselves units. Each cycle is reported once, as a
// path that starts and ends with the same name. The walk visits units in
// name order and dependencies in declaration order, so the result is stable.
func Cycles(units *UnitSet) [][]string {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, units.Len())
	var stack []string
	var cycles [][]string

	var visit func(name string)
	visit = func(name string) {
		color[name] = gray
		stack = append(stack, name)

		rec, _ := units.Lookup(name)
		for _, dep := range rec.WorkspaceDependencies {
			if !units.Contains(dep) {
				continue
			}
			switch color[dep] {
			case white:
				visit(dep)
			case gray:
				start := len(stack) - 1
				for stack[start] != dep {
					start--
				}
				cycle := make([]string, 0, len(stack)-start+1)
				cycle = append(cycle, stack[start:]...)
				cycle = append(cycle, dep)
				cycles = append(cycles, cycle)
			}
		}

		stack = stack[:len(stack)-1]
		color[name] = black
	}

	for _, name := range units.Names() {
		if color[name] == white {
			visit(name)
		}
	}
	return cycles
}

// CheckCycles returns a *CycleError when the units contain a cycle.
func CheckCycles(units *UnitSet) error {
	cycles := Cycles(units)
	if len(cycles) == 0 {
		return nil
	}
	return &CycleError{Cycles: cycles}
}
