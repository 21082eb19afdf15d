// Package compiler lowers an emergent syntax tree to register machine
// bytecode.
//
// # Layout
//
// The output is a single linear instruction stream. The main program comes
// first and ends with HALT. The body of every function follows, each
// ending with RETURN. A def statement compiles to DEF_FUNC, which registers
// the function prototype stored in the constant pool when it executes.
// Function bodies are queued when their def is reached and compiled after
// the code that contains them, so nested definitions work the same way.
//
// # Registers
//
// Each activation owns a window of registers. Register 0 of every window
// holds the value of the most recent expression statement: that is the
// program's result at HALT and the function's result at the implicit
// RETURN 0 that ends each body. Other registers are allocated as a stack
// and released as soon as the expression that needed them is emitted. A
// binary operation builds its left operand in its own destination, so a
// left-nested chain of any length needs a constant number of registers.
//
// # Variables
//
// Variables are not assigned to registers. LOAD_VAR and STORE_VAR name the
// variable with a string constant and resolve it against the scope chain
// at run time, the same way the interpreter does.
package compiler

import (
	"fmt"
	"math"

	"github.com/deepnoodle-ai/emergent/ast"
	"github.com/deepnoodle-ai/emergent/bytecode"
	"github.com/deepnoodle-ai/emergent/errors"
	"github.com/deepnoodle-ai/emergent/internal/token"
	"github.com/deepnoodle-ai/emergent/op"
	"github.com/rs/zerolog"
)

// MaxRegisters is the largest register window a single frame may need.
const MaxRegisters = bytecode.MaxRegisters

// Config holds compiler configuration options.
type Config struct {
	// Name of the compiled program. Defaults to "main".
	Name string

	// Filename is the source filename, used for error messages.
	Filename string

	// Source is the original source code, used for better error messages.
	Source string

	// Logger receives compilation statistics at debug level.
	Logger *zerolog.Logger
}

// Compiler lowers one program. A Compiler is not reusable.
type Compiler struct {
	name         string
	filename     string
	source       string
	logger       zerolog.Logger
	instructions []bytecode.Instruction
	locations    []bytecode.SourceLocation
	constants    []any
	constIndex   map[string]int
	current      *frame
	pending      []*pendingFunction
	failure      error
}

// frame tracks register allocation for the code being compiled.
type frame struct {
	next int
	max  int
}

// pendingFunction is a function body waiting to be compiled.
type pendingFunction struct {
	def   *ast.Def
	slot  int // constant pool slot reserved for the prototype
	entry int
}

// Compile compiles a program and returns immutable bytecode. Pass nil for
// cfg to use default settings.
func Compile(program *ast.Program, cfg *Config) (*bytecode.Code, error) {
	c := New(cfg)
	return c.Compile(program)
}

// New returns a Compiler. Pass nil for cfg to use default settings.
func New(cfg *Config) *Compiler {
	c := &Compiler{
		name:       "main",
		logger:     zerolog.Nop(),
		constIndex: map[string]int{},
	}
	if cfg != nil {
		if cfg.Name != "" {
			c.name = cfg.Name
		}
		c.filename = cfg.Filename
		c.source = cfg.Source
		if cfg.Logger != nil {
			c.logger = *cfg.Logger
		}
	}
	return c
}

// Compile lowers the program.
func (c *Compiler) Compile(program *ast.Program) (*bytecode.Code, error) {
	c.current = &frame{next: 1, max: 1}
	stmts := program.Stmts
	for i, stmt := range stmts {
		if i == len(stmts)-1 {
			c.emit(stmt, op.LoadNil, 0)
		}
		c.compileStmt(stmt)
	}
	if len(stmts) > 0 {
		c.emit(stmts[len(stmts)-1], op.Halt)
	} else {
		c.emit(nil, op.Halt)
	}
	mainRegisters := c.current.max
	for len(c.pending) > 0 {
		fn := c.pending[0]
		c.pending = c.pending[1:]
		c.compileFunction(fn)
	}
	if c.failure != nil {
		return nil, c.failure
	}
	if mainRegisters > MaxRegisters {
		return nil, c.errorf(program, "program needs %d registers (limit %d)", mainRegisters, MaxRegisters)
	}
	code := bytecode.NewCode(bytecode.CodeParams{
		Name:         c.name,
		Instructions: c.instructions,
		Constants:    c.constants,
		Locations:    c.locations,
		Registers:    mainRegisters,
		Source:       c.source,
		Filename:     c.filename,
	})
	stats := code.Stats()
	c.logger.Debug().
		Str("name", c.name).
		Int("instructions", stats.InstructionCount).
		Int("constants", stats.ConstantCount).
		Int("functions", stats.FunctionCount).
		Int("registers", stats.MainRegisters).
		Msg("compiled program")
	return code, nil
}

// compileFunction emits the body of a queued function and stores its
// prototype in the reserved constant slot.
func (c *Compiler) compileFunction(fn *pendingFunction) {
	def := fn.def
	outer := c.current
	c.current = &frame{next: 1, max: 1}
	fn.entry = len(c.instructions)
	for _, stmt := range def.Body.Stmts {
		c.compileStmt(stmt)
	}
	c.emit(def.Body, op.Return, 0)
	if c.current.max > MaxRegisters {
		c.fail(c.errorf(def, "function %s needs %d registers (limit %d)", def.Name.Name, c.current.max, MaxRegisters))
	}
	c.constants[fn.slot] = bytecode.NewFunction(bytecode.FunctionParams{
		Name:       def.Name.Name,
		Parameters: def.ParamNames(),
		ReturnHint: def.ReturnHint,
		Entry:      fn.entry,
		Registers:  c.current.max,
	})
	c.current = outer
}

// alloc reserves the next free register.
func (c *Compiler) alloc() int {
	r := c.current.next
	c.current.next++
	if c.current.next > c.current.max {
		c.current.max = c.current.next
	}
	return r
}

// allocN reserves n consecutive registers and returns the first.
func (c *Compiler) allocN(n int) int {
	base := c.current.next
	for i := 0; i < n; i++ {
		c.alloc()
	}
	return base
}

// mark returns the allocation state, to be restored with release.
func (c *Compiler) mark() int {
	return c.current.next
}

func (c *Compiler) release(mark int) {
	c.current.next = mark
}

// emit appends an instruction and returns its index. The node supplies the
// source location reported for faults raised by the instruction.
func (c *Compiler) emit(node ast.Node, code op.Code, operands ...int) int {
	ins := bytecode.Instruction{Op: code}
	for i, operand := range operands {
		switch i {
		case 0:
			ins.A = operand
		case 1:
			ins.B = operand
		case 2:
			ins.C = operand
		}
	}
	var loc bytecode.SourceLocation
	if node != nil {
		pos := node.Pos()
		loc = bytecode.SourceLocation{Line: pos.LineNumber(), Column: pos.ColumnNumber()}
	}
	c.instructions = append(c.instructions, ins)
	c.locations = append(c.locations, loc)
	return len(c.instructions) - 1
}

// here returns the index of the next instruction to be emitted.
func (c *Compiler) here() int {
	return len(c.instructions)
}

// patch sets a jump target operand of an emitted instruction.
func (c *Compiler) patch(index int, target int) {
	ins := &c.instructions[index]
	switch ins.Op {
	case op.Jump:
		ins.A = target
	case op.JumpIfFalse, op.JumpIfTrue:
		ins.B = target
	case op.SetupTry:
		ins.A = target
	default:
		panic(fmt.Sprintf("compiler: cannot patch %s", ins.Op))
	}
}

// constant adds a value to the constant pool, reusing an existing entry
// for an equal number, string or bool.
func (c *Compiler) constant(value any) int {
	var key string
	switch v := value.(type) {
	case float64:
		key = fmt.Sprintf("n:%x", math.Float64bits(v))
	case string:
		key = "s:" + v
	case bool:
		key = fmt.Sprintf("b:%t", v)
	case bytecode.CallSite:
		key = fmt.Sprintf("c:%s/%d", v.Name, v.Argc)
	}
	if key != "" {
		if index, ok := c.constIndex[key]; ok {
			return index
		}
		c.constIndex[key] = len(c.constants)
	}
	c.constants = append(c.constants, value)
	return len(c.constants) - 1
}

// reserve adds a constant slot that is filled in later.
func (c *Compiler) reserve() int {
	c.constants = append(c.constants, nil)
	return len(c.constants) - 1
}

func (c *Compiler) fail(err error) {
	if c.failure == nil {
		c.failure = err
	}
}

func (c *Compiler) errorf(node ast.Node, format string, args ...any) *errors.CompileError {
	var pos token.Position
	if node != nil {
		pos = node.Pos()
	}
	err := errors.NewCompileError(errors.SourceLocation{
		Filename: c.filename,
		Line:     pos.LineNumber(),
		Column:   pos.ColumnNumber(),
		Source:   errors.LineText(c.source, pos.LineNumber()),
	}, format, args...)
	if node != nil {
		err.Node = node.String()
	}
	return err
}
