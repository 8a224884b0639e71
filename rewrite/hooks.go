package rewrite

import "fmt"

// beforeStepHookText renders a BeforeStepHook per spec §4.5.
func beforeStepHookText(usid uint64, functionCalls int) string {
	return fmt.Sprintf("\naddress(0x00000000000000000000000000000000455442).staticcall(abi.encode(uint64(%d), uint64(%d)));\n", usid, functionCalls)
}

// variableUpdateHookText renders a VariableUpdateHook per spec §4.5: an
// expression that forces evaluation of base without committing state.
func variableUpdateHookText(uvid uint64, base string) string {
	return fmt.Sprintf("\nrequire(keccak256(abi.encode(address(0x00000000000000000000000000004544425530), uint64(%d), %s)) != bytes32(uint256(0)));\n", uvid, base)
}
