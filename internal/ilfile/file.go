// Package ilfile reads and writes the program graph a frontend hands to the
// scanner. Two encodings share one schema: TOML for hand-written fixtures
// and msgpack (.ilpk) for generated graphs.
package ilfile

// SchemaVersion is bumped whenever File changes incompatibly.
const SchemaVersion uint16 = 1

// File is the serialized program graph.
type File struct {
	Schema uint16 `toml:"schema" msgpack:"schema"`
	// Root names the unit the scan starts from; defaults to the last unit.
	Root  string `toml:"root" msgpack:"root"`
	Units []Unit `toml:"units" msgpack:"units"`
}

type Unit struct {
	ID           string   `toml:"id" msgpack:"id"`
	Dependencies []string `toml:"dependencies" msgpack:"dependencies"`
	Types        []Type   `toml:"types" msgpack:"types"`
	Blocks       []Block  `toml:"blocks" msgpack:"blocks"`
}

type Type struct {
	ID        string   `toml:"id" msgpack:"id"`
	Name      string   `toml:"name" msgpack:"name"`
	HeapSize  int      `toml:"heap_size" msgpack:"heap_size"`
	StackSize int      `toml:"stack_size" msgpack:"stack_size"`
	ValueType bool     `toml:"value_type" msgpack:"value_type"`
	Pointer   bool     `toml:"pointer" msgpack:"pointer"`
	Opaque    bool     `toml:"opaque" msgpack:"opaque"`
	Base      string   `toml:"base" msgpack:"base"`
	Special   string   `toml:"special" msgpack:"special"`
	Fields    []Field  `toml:"fields" msgpack:"fields"`
	Methods   []Method `toml:"methods" msgpack:"methods"`
}

type Field struct {
	ID      string `toml:"id" msgpack:"id"`
	Name    string `toml:"name" msgpack:"name"`
	IDValue int    `toml:"id_value" msgpack:"id_value"`
	Static  bool   `toml:"static" msgpack:"static"`
	Offset  int    `toml:"offset" msgpack:"offset"`
	Type    string `toml:"type" msgpack:"type"`
}

type Method struct {
	ID        string `toml:"id" msgpack:"id"`
	Signature string `toml:"signature" msgpack:"signature"`
	IDValue   int    `toml:"id_value" msgpack:"id_value"`
	Static    bool   `toml:"static" msgpack:"static"`
	Abstract  bool   `toml:"abstract" msgpack:"abstract"`
	Priority  int64  `toml:"priority" msgpack:"priority"`
}

// Block is the instruction block of Method, or a plug when Plug is set.
type Block struct {
	Method string  `toml:"method" msgpack:"method"`
	Plug   string  `toml:"plug" msgpack:"plug"`
	Instrs []Instr `toml:"instrs" msgpack:"instrs"`
}

// Instr is one instruction. Kind is empty for real IL, otherwise one of
// "method-start", "method-end", "stack-switch".
type Instr struct {
	Kind   string `toml:"kind" msgpack:"kind"`
	Op     string `toml:"op" msgpack:"op"`
	Offset int    `toml:"offset" msgpack:"offset"`
	Label  bool   `toml:"label" msgpack:"label"`
	Int    int64  `toml:"int" msgpack:"int"`
	Text   string `toml:"text" msgpack:"text"`
	Ref    string `toml:"ref" msgpack:"ref"`
}
