// Package op defines opcodes used by the emergent compiler and register
// virtual machine.
package op

// Code is an integer opcode that indicates an operation to execute.
//
// Instructions are register based. Operands A, B and C hold register
// indices, constant pool indices or absolute jump targets depending on the
// opcode. The comment beside each opcode lists its operand layout.
type Code uint16

const (
	Invalid Code = 0

	// Execution
	Nop    Code = 1 // -
	Halt   Code = 2 // -
	Call   Code = 3 // A=dst B=callsite-const C=arg-base
	Return Code = 4 // A=src
	Print  Code = 5 // A=dst B=arg-base C=argc

	// Jump
	Jump        Code = 10 // A=target
	JumpIfFalse Code = 11 // A=cond B=target
	JumpIfTrue  Code = 12 // A=cond B=target

	// Load
	LoadConst Code = 20 // A=dst B=const
	LoadNil   Code = 21 // A=dst
	LoadVar   Code = 22 // A=dst B=name-const
	Move      Code = 23 // A=dst B=src

	// Store
	StoreVar Code = 30 // A=src B=name-const

	// Operations
	BinaryAdd           Code = 40 // A=dst B=x C=y
	BinarySubtract      Code = 41
	BinaryMultiply      Code = 42
	BinaryDivide        Code = 43
	BinaryModulo        Code = 44
	CompareEqual        Code = 45
	CompareNotEqual     Code = 46
	CompareLess         Code = 47
	CompareLessEqual    Code = 48
	CompareGreater      Code = 49
	CompareGreaterEqual Code = 50
	LogicalAnd          Code = 51
	LogicalOr           Code = 52
	UnaryNegative       Code = 53 // A=dst B=x
	UnaryNot            Code = 54 // A=dst B=x

	// Containers
	NewList    Code = 60 // A=dst B=base C=count
	ArrayIndex Code = 61 // A=dst B=container C=index
	ArraySet   Code = 62 // A=container B=index C=value
	ArrayLen   Code = 63 // A=dst B=src

	// Functions and types
	DefFunc   Code = 70 // A=function-const
	CheckType Code = 71 // A=src B=hint-const C=name-const

	// Exception handling
	SetupTry Code = 80 // A=catch-target B=name-const or -1
	PopTry   Code = 81 // -
)

// BinaryOpType describes a type of binary operation, as in an operation that
// takes two operands. For example, addition, subtraction, multiplication, etc.
type BinaryOpType uint16

const (
	Add      BinaryOpType = 1
	Subtract BinaryOpType = 2
	Multiply BinaryOpType = 3
	Divide   BinaryOpType = 4
	Modulo   BinaryOpType = 5
)

// String returns a string representation of the binary operation.
// For example "+" for addition.
func (bop BinaryOpType) String() string {
	switch bop {
	case Add:
		return "+"
	case Subtract:
		return "-"
	case Multiply:
		return "*"
	case Divide:
		return "/"
	case Modulo:
		return "%"
	default:
		return ""
	}
}

// CompareOpType describes a type of comparison operation. For example, less
// than, greater than, equal, etc.
type CompareOpType uint16

const (
	LessThan           CompareOpType = 1
	LessThanOrEqual    CompareOpType = 2
	Equal              CompareOpType = 3
	NotEqual           CompareOpType = 4
	GreaterThan        CompareOpType = 5
	GreaterThanOrEqual CompareOpType = 6
)

// String returns a string representation of the comparison operation.
// For example "<" for less than.
func (cop CompareOpType) String() string {
	switch cop {
	case LessThan:
		return "<"
	case LessThanOrEqual:
		return "<="
	case Equal:
		return "=="
	case NotEqual:
		return "!="
	case GreaterThan:
		return ">"
	case GreaterThanOrEqual:
		return ">="
	default:
		return ""
	}
}

var binaryOps = map[string]BinaryOpType{
	"+": Add,
	"-": Subtract,
	"*": Multiply,
	"/": Divide,
	"%": Modulo,
}

var compareOps = map[string]CompareOpType{
	"<":  LessThan,
	"<=": LessThanOrEqual,
	"==": Equal,
	"!=": NotEqual,
	">":  GreaterThan,
	">=": GreaterThanOrEqual,
}

// LookupBinaryOp returns the binary operation written as s in source code.
func LookupBinaryOp(s string) (BinaryOpType, bool) {
	bop, ok := binaryOps[s]
	return bop, ok
}

// LookupCompareOp returns the comparison written as s in source code.
func LookupCompareOp(s string) (CompareOpType, bool) {
	cop, ok := compareOps[s]
	return cop, ok
}

// BinaryCode returns the opcode that performs the given binary operation.
func BinaryCode(bop BinaryOpType) Code {
	return BinaryAdd + Code(bop-Add)
}

// CompareCode returns the opcode that performs the given comparison.
func CompareCode(cop CompareOpType) Code {
	switch cop {
	case Equal:
		return CompareEqual
	case NotEqual:
		return CompareNotEqual
	case LessThan:
		return CompareLess
	case LessThanOrEqual:
		return CompareLessEqual
	case GreaterThan:
		return CompareGreater
	default:
		return CompareGreaterEqual
	}
}

// BinaryOp returns the binary operation performed by an arithmetic opcode.
func (c Code) BinaryOp() (BinaryOpType, bool) {
	if c < BinaryAdd || c > BinaryModulo {
		return 0, false
	}
	return Add + BinaryOpType(c-BinaryAdd), true
}

// CompareOp returns the comparison performed by a comparison opcode.
func (c Code) CompareOp() (CompareOpType, bool) {
	switch c {
	case CompareEqual:
		return Equal, true
	case CompareNotEqual:
		return NotEqual, true
	case CompareLess:
		return LessThan, true
	case CompareLessEqual:
		return LessThanOrEqual, true
	case CompareGreater:
		return GreaterThan, true
	case CompareGreaterEqual:
		return GreaterThanOrEqual, true
	}
	return 0, false
}

// IsJump returns true for opcodes that may transfer control.
func (c Code) IsJump() bool {
	switch c {
	case Jump, JumpIfFalse, JumpIfTrue, Call, Return, Halt, SetupTry:
		return true
	}
	return false
}

// IsPure returns true for opcodes that only read and write registers. Runs
// of pure instructions are eligible for the hot-path cache.
func (c Code) IsPure() bool {
	switch c {
	case Nop, LoadConst, LoadNil, Move, UnaryNegative, UnaryNot, LogicalAnd, LogicalOr:
		return true
	}
	_, isBinary := c.BinaryOp()
	_, isCompare := c.CompareOp()
	return isBinary || isCompare
}

func (c Code) String() string {
	if info := GetInfo(c); info.Name != "" {
		return info.Name
	}
	return "INVALID"
}

// Info contains information about an opcode.
type Info struct {
	Code         Code
	Name         string
	OperandCount int
}

var infos = make([]Info, 128)

func init() {
	type opInfo struct {
		op    Code
		name  string
		count int
	}
	ops := []opInfo{
		{ArrayIndex, "ARRAY_INDEX", 3},
		{ArrayLen, "ARRAY_LEN", 2},
		{ArraySet, "ARRAY_SET", 3},
		{BinaryAdd, "ADD", 3},
		{BinaryDivide, "DIV", 3},
		{BinaryModulo, "MOD", 3},
		{BinaryMultiply, "MUL", 3},
		{BinarySubtract, "SUB", 3},
		{Call, "CALL", 3},
		{CheckType, "CHECK_TYPE", 3},
		{CompareEqual, "CMP_EQ", 3},
		{CompareGreater, "CMP_GT", 3},
		{CompareGreaterEqual, "CMP_GE", 3},
		{CompareLess, "CMP_LT", 3},
		{CompareLessEqual, "CMP_LE", 3},
		{CompareNotEqual, "CMP_NE", 3},
		{DefFunc, "DEF_FUNC", 1},
		{Halt, "HALT", 0},
		{Jump, "JUMP", 1},
		{JumpIfFalse, "JUMP_IF_FALSE", 2},
		{JumpIfTrue, "JUMP_IF_TRUE", 2},
		{LoadConst, "LOAD_CONST", 2},
		{LoadNil, "LOAD_NIL", 1},
		{LoadVar, "LOAD_VAR", 2},
		{LogicalAnd, "AND", 3},
		{LogicalOr, "OR", 3},
		{Move, "MOVE", 2},
		{NewList, "NEW_LIST", 3},
		{Nop, "NOP", 0},
		{PopTry, "POP_TRY", 0},
		{Print, "PRINT", 3},
		{Return, "RETURN", 1},
		{SetupTry, "SETUP_TRY", 2},
		{StoreVar, "STORE_VAR", 2},
		{UnaryNegative, "NEG", 2},
		{UnaryNot, "NOT", 2},
	}
	for _, o := range ops {
		infos[o.op] = Info{
			Name:         o.name,
			Code:         o.op,
			OperandCount: o.count,
		}
	}
}

// GetInfo returns information about the given opcode.
func GetInfo(op Code) Info {
	if int(op) >= len(infos) {
		return Info{}
	}
	return infos[op]
}
