package protocol

// PluginData describes one server-side plugin as returned by
// RequestPluginList (protocol 4+). The index is the plugin's id in
// PluginSpecific requests.
type PluginData struct {
	Name        string
	Description string
	Version     string
	Index       uint32

	// ProtocolVersion is the plugin's own protocol revision, unrelated
	// to the SDK protocol version.
	ProtocolVersion uint32
}

func (p *PluginData) Decode(r *Reader) error {
	var err error
	if p.Name, err = r.ReadString(); err != nil {
		return err
	}
	if p.Description, err = r.ReadString(); err != nil {
		return err
	}
	if p.Version, err = r.ReadString(); err != nil {
		return err
	}
	if p.Index, err = r.ReadU32(); err != nil {
		return err
	}
	p.ProtocolVersion, err = r.ReadU32()
	return err
}
