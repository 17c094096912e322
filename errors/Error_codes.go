package errors

// ERR is the error code carried by every Error.
type ERR int32

const (
	ERR_UNKNOWN            ERR = 0
	ERR_INVALID_ARGUMENT   ERR = 1
	ERR_NOT_FOUND          ERR = 3
	ERR_PROCESSING         ERR = 4
	ERR_CONFIGURATION      ERR = 5
	ERR_ERROR              ERR = 9
	ERR_STORE_ACCESS       ERR = 100
	ERR_DECODE_WARNING     ERR = 101
	ERR_KEY_NOT_FOUND      ERR = 102
	ERR_INVALID_KEY_LENGTH ERR = 103
	ERR_INVALID_KEY        ERR = 104
	ERR_IO                 ERR = 105
	ERR_CHECKSUM           ERR = 106
)

var ERR_name = map[int32]string{
	0:   "UNKNOWN",
	1:   "INVALID_ARGUMENT",
	3:   "NOT_FOUND",
	4:   "PROCESSING",
	5:   "CONFIGURATION",
	9:   "ERROR",
	100: "STORE_ACCESS",
	101: "DECODE_WARNING",
	102: "KEY_NOT_FOUND",
	103: "INVALID_KEY_LENGTH",
	104: "INVALID_KEY",
	105: "IO",
	106: "CHECKSUM",
}

var ERR_value = func() map[string]int32 {
	m := make(map[string]int32, len(ERR_name))
	for k, v := range ERR_name {
		m[v] = k
	}

	return m
}()

func (x ERR) String() string {
	if name, ok := ERR_name[int32(x)]; ok {
		return name
	}

	return "ERR_UNDEFINED"
}
