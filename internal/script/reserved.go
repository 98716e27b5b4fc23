package script

// ReservedNames is the fixed set of scaffold entry names: debugger façade
// handles, bound memory utilities, and the allow-listed builtins. Tool
// injection may never shadow any of these.
var ReservedNames = map[string]bool{
	"debugger": true, "target": true, "process": true, "thread": true, "frame": true,
	"read_string": true, "read_pointer": true, "read_uint8": true, "read_uint16": true,
	"read_uint32": true, "read_uint64": true, "search_memory": true,
	"struct_pack_uint16": true, "struct_pack_uint32": true, "struct_pack_uint64": true,
	"struct_unpack_uint16": true, "struct_unpack_uint32": true, "struct_unpack_uint64": true,
	"to_hex": true, "from_hex": true, "json_parse": true, "json_stringify": true,
	"regex_match": true, "regex_find_all": true, "sorted": true, "unique": true,
	"abs": true, "min": true, "max": true,
	"print": true, "len": true, "hex": true, "int": true, "str": true, "float": true, "bool": true,
	"true": true, "false": true, "nil": true,
}

// ReplScaffoldNames are scaffold entries the REPL agent adds beyond the
// engine defaults; tool injection must not shadow these either.
var ReplScaffoldNames = map[string]bool{
	"done": true, "final_value": true, "llm_query": true, "llm_query_batched": true,
}

// IsReserved reports whether name may not be introduced by tool injection.
func IsReserved(name string) bool {
	return ReservedNames[name] || ReplScaffoldNames[name]
}
