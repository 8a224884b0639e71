package abicall

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Overloads maps a function name to its declaration-ordered overloads, the
// shape C11 is handed (spec §4.11: "given a map name -> [Function]").
type Overloads map[string][]abi.Method

// Encode selects the matching overload for callStr and returns its
// selector-prefixed calldata (spec §4.11 contract).
func Encode(methods Overloads, callStr string) ([]byte, error) {
	call, err := parseCall(callStr)
	if err != nil {
		return nil, err
	}
	overloads, ok := methods[call.name]
	if !ok || len(overloads) == 0 {
		return nil, fmt.Errorf("abicall: no function named %q", call.name)
	}

	var errs []string
	for _, m := range overloads {
		packed, err := tryOverload(m, call.args)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", m.Sig, err))
			continue
		}
		return append(append([]byte(nil), m.ID...), packed...), nil
	}
	return nil, fmt.Errorf("abicall: no overload of %q matched: %s", call.name, strings.Join(errs, "; "))
}

func tryOverload(m abi.Method, args []string) ([]byte, error) {
	if len(args) != len(m.Inputs) {
		return nil, fmt.Errorf("want %d args, got %d", len(m.Inputs), len(args))
	}
	values := make([]interface{}, len(args))
	for i, a := range args {
		v, err := convertArg(a, m.Inputs[i].Type)
		if err != nil {
			return nil, fmt.Errorf("arg %d (%s): %w", i, m.Inputs[i].Name, err)
		}
		values[i] = v
	}
	return m.Inputs.Pack(values...)
}
