package builtins

// FuncSpec documents a builtin function for tooling.
type FuncSpec struct {
	Name    string
	Doc     string
	Args    []string
	Returns string
	Example string
}

// Docs returns documentation for all builtin functions.
func Docs() []FuncSpec {
	return builtinDocs
}

var builtinDocs = []FuncSpec{
	{
		Name:    "bernoulli",
		Doc:     "Create a distribution that samples 1 with probability p and 0 otherwise",
		Args:    []string{"p", "seed?"},
		Returns: "distribution",
		Example: "let coin = bernoulli(0.5)",
	},
	{
		Name:    "consensus",
		Doc:     "Most frequent item of a list, or the mean of n samples of a distribution",
		Args:    []string{"items_or_dist", "n?"},
		Returns: "any",
		Example: "consensus(normal(10, 2), 500)",
	},
	{
		Name:    "len",
		Doc:     "Number of items in a list or characters in a string",
		Args:    []string{"value"},
		Returns: "number",
		Example: "len([1, 2, 3])",
	},
	{
		Name:    "normal",
		Doc:     "Create a normal distribution",
		Args:    []string{"mean", "std", "seed?"},
		Returns: "distribution",
		Example: "let d = normal(0, 1, 42)",
	},
	{
		Name:    "print",
		Doc:     "Write values separated by spaces followed by a newline",
		Args:    []string{"values..."},
		Returns: "nil",
		Example: "print(\"x =\", x)",
	},
	{
		Name:    "sample",
		Doc:     "Draw one value from a distribution",
		Args:    []string{"distribution"},
		Returns: "number",
		Example: "sample(uniform(0, 1))",
	},
	{
		Name:    "str",
		Doc:     "Convert a value to the text print would write",
		Args:    []string{"value"},
		Returns: "string",
		Example: "str(1.5)",
	},
	{
		Name:    "type",
		Doc:     "Type name of a value",
		Args:    []string{"value"},
		Returns: "string",
		Example: "type(normal(0, 1))",
	},
	{
		Name:    "uniform",
		Doc:     "Create a distribution uniform over [low, high)",
		Args:    []string{"low", "high", "seed?"},
		Returns: "distribution",
		Example: "let u = uniform(0, 10)",
	},
}
