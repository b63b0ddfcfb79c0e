package server

import (
	"bytes"

	"github.com/ChickenIQ/vanillago/pkg/nbt"
	"github.com/ChickenIQ/vanillago/pkg/proto"
	"github.com/ChickenIQ/vanillago/pkg/registry"
	"github.com/ChickenIQ/vanillago/pkg/session"
)

// idRegistryData is the clientbound registry-data configuration-phase
// packet id (spec.md §4.9/§4.5 "registry data ... for each registry").
const idRegistryData = 0x07

// sendRegistryData writes one registry-data packet per known registry
// (spec.md §4.5's KnownRegistries), each carrying the registry id and its
// entries as nameless NBT compounds, grounded on the teacher's lack of an
// equivalent (1.8-era protocol predates the registry system) generalized
// from pkg/registry's Record.Serialize.
func (wc *WorldContext) sendRegistryData(conn *session.Connection) error {
	for _, id := range registryOrder(wc.Registries) {
		reg := wc.Registries[id]
		var payload bytes.Buffer
		if err := proto.WriteString(&payload, id); err != nil {
			return err
		}
		if _, err := proto.WriteVarInt(&payload, int32(len(reg.Entries))); err != nil {
			return err
		}
		for _, entry := range reg.Entries {
			if err := proto.WriteString(&payload, entry.Name); err != nil {
				return err
			}
			if err := proto.WriteBool(&payload, true); err != nil {
				return err
			}
			if err := nbt.WriteNameless(&payload, entry.Serialize()); err != nil {
				return err
			}
		}
		if err := conn.Wire.WritePacket(&proto.Packet{ID: idRegistryData, Payload: payload.Bytes()}); err != nil {
			return err
		}
	}
	return nil
}

// registryOrder returns registry ids in spec.md §4.5's KnownRegistries
// order, skipping any the document didn't define.
func registryOrder(registries map[string]*registry.Registry) []string {
	ids := make([]string, 0, len(registries))
	for _, id := range registry.KnownRegistries {
		if _, ok := registries[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}
