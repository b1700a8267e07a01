package caller

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Operation declares one read operation of a contract.
type Operation struct {
	// Name identifies the operation. For ABI methods this is the unique
	// go-ethereum name, so overloads read "foo", "foo0", ...
	Name string

	// Arity is the number of positional arguments.
	Arity int

	// Method is the ABI method ContractTransport packs against. It may be
	// zero for transports that do not need it.
	Method abi.Method
}

// NewOperation declares an operation without ABI information.
func NewOperation(name string, arity int) Operation {
	return Operation{Name: name, Arity: arity}
}

// OperationsFromABI declares every view or pure method of parsed, sorted by
// name. State-changing methods are skipped.
func OperationsFromABI(parsed abi.ABI) []Operation {
	ops := make([]Operation, 0, len(parsed.Methods))
	for name, method := range parsed.Methods {
		if !method.IsConstant() {
			continue
		}
		ops = append(ops, Operation{
			Name:   name,
			Arity:  len(method.Inputs),
			Method: method,
		})
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i].Name < ops[j].Name })
	return ops
}

// Select returns the operations named in names, in that order.
func Select(ops []Operation, names ...string) ([]Operation, error) {
	byName := make(map[string]Operation, len(ops))
	for _, op := range ops {
		byName[op.Name] = op
	}

	selected := make([]Operation, 0, len(names))
	for _, name := range names {
		op, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
		}
		selected = append(selected, op)
	}
	return selected, nil
}

func indexOperations(ops []Operation) (map[string]Operation, error) {
	index := make(map[string]Operation, len(ops))
	for _, op := range ops {
		if strings.TrimSpace(op.Name) == "" {
			return nil, fmt.Errorf("%w: empty name", ErrInvalidOperation)
		}
		if op.Arity < 0 {
			return nil, fmt.Errorf("%w: %q has negative arity", ErrInvalidOperation, op.Name)
		}
		if _, dup := index[op.Name]; dup {
			return nil, fmt.Errorf("%w: %q declared twice", ErrInvalidOperation, op.Name)
		}
		index[op.Name] = op
	}
	return index, nil
}
