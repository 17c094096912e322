package model

// Tag is the classification of a Record.
type Tag string

const (
	TagDescriptor     Tag = "descriptor-record"
	TagDescriptorKey  Tag = "descriptor-key-record"
	TagDescriptorCKey Tag = "descriptor-ckey-record"
	TagPublicKey      Tag = "public-key-record"
	TagSPK            Tag = "spk-record"
	TagUnrecognized   Tag = "unrecognized"
)

func (t Tag) String() string {
	return string(t)
}

// ParseTag maps a tag name back to its Tag, ok is false for unknown names.
func ParseTag(s string) (Tag, bool) {
	switch Tag(s) {
	case TagDescriptor, TagDescriptorKey, TagDescriptorCKey, TagPublicKey, TagSPK, TagUnrecognized:
		return Tag(s), true
	default:
		return TagUnrecognized, false
	}
}
