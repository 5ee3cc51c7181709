package topology

import (
	"fmt"
	"time"

	"github.com/tinylib/msgp/msgp"

	"github.com/arloliu/sextant/types"
)

// The NATS KV value is a MessagePack-encoded cluster snapshot:
//
//	{"type": int, "servers": [{"address": str, "state": int,
//	 "rtt_ns": int64, "tags": {str: str}, "updated": time}, ...]}
//
// The discovery service publishes with EncodeDescription; watchers decode
// with DecodeDescription. Unknown map keys are skipped so the two sides can
// be upgraded independently.

// EncodeDescription encodes a cluster snapshot for publication.
//
// Parameters:
//   - desc: The snapshot to encode
//
// Returns:
//   - []byte: MessagePack encoding of the snapshot
func EncodeDescription(desc types.ClusterDescription) []byte {
	servers := desc.Servers()

	b := msgp.AppendMapHeader(nil, 2)
	b = msgp.AppendString(b, "type")
	b = msgp.AppendInt(b, int(desc.Type()))
	b = msgp.AppendString(b, "servers")
	b = msgp.AppendArrayHeader(b, uint32(len(servers)))

	for _, srv := range servers {
		b = msgp.AppendMapHeader(b, 5)
		b = msgp.AppendString(b, "address")
		b = msgp.AppendString(b, string(srv.Address))
		b = msgp.AppendString(b, "state")
		b = msgp.AppendInt(b, int(srv.State))
		b = msgp.AppendString(b, "rtt_ns")
		b = msgp.AppendInt64(b, int64(srv.RTT))
		b = msgp.AppendString(b, "tags")
		b = msgp.AppendMapHeader(b, uint32(len(srv.Tags)))
		for k, v := range srv.Tags {
			b = msgp.AppendString(b, k)
			b = msgp.AppendString(b, v)
		}
		b = msgp.AppendString(b, "updated")
		b = msgp.AppendTime(b, srv.LastUpdated)
	}

	return b
}

// DecodeDescription decodes a snapshot published with EncodeDescription.
//
// Parameters:
//   - data: MessagePack-encoded snapshot
//
// Returns:
//   - types.ClusterDescription: The decoded snapshot
//   - error: Decoding error if the payload is malformed
func DecodeDescription(data []byte) (types.ClusterDescription, error) {
	var (
		clusterType types.ClusterType
		servers     []types.ServerDescription
	)

	fields, data, err := msgp.ReadMapHeaderBytes(data)
	if err != nil {
		return types.ClusterDescription{}, fmt.Errorf("topology: invalid snapshot: %w", err)
	}

	for i := uint32(0); i < fields; i++ {
		var key string
		key, data, err = msgp.ReadStringBytes(data)
		if err != nil {
			return types.ClusterDescription{}, fmt.Errorf("topology: invalid snapshot key: %w", err)
		}

		switch key {
		case "type":
			var t int
			t, data, err = msgp.ReadIntBytes(data)
			if err != nil {
				return types.ClusterDescription{}, fmt.Errorf("topology: invalid cluster type: %w", err)
			}
			clusterType = types.ClusterType(t)
		case "servers":
			var count uint32
			count, data, err = msgp.ReadArrayHeaderBytes(data)
			if err != nil {
				return types.ClusterDescription{}, fmt.Errorf("topology: invalid server list: %w", err)
			}
			servers = make([]types.ServerDescription, 0, count)
			for j := uint32(0); j < count; j++ {
				var srv types.ServerDescription
				srv, data, err = decodeServer(data)
				if err != nil {
					return types.ClusterDescription{}, err
				}
				servers = append(servers, srv)
			}
		default:
			data, err = msgp.Skip(data)
			if err != nil {
				return types.ClusterDescription{}, fmt.Errorf("topology: invalid snapshot field %q: %w", key, err)
			}
		}
	}

	return types.NewClusterDescription(clusterType, servers...), nil
}

func decodeServer(data []byte) (types.ServerDescription, []byte, error) {
	var srv types.ServerDescription

	fields, data, err := msgp.ReadMapHeaderBytes(data)
	if err != nil {
		return srv, data, fmt.Errorf("topology: invalid server entry: %w", err)
	}

	for i := uint32(0); i < fields; i++ {
		var key string
		key, data, err = msgp.ReadStringBytes(data)
		if err != nil {
			return srv, data, fmt.Errorf("topology: invalid server key: %w", err)
		}

		switch key {
		case "address":
			var addr string
			addr, data, err = msgp.ReadStringBytes(data)
			srv.Address = types.ServerAddress(addr)
		case "state":
			var state int
			state, data, err = msgp.ReadIntBytes(data)
			srv.State = types.ServerState(state)
		case "rtt_ns":
			var rtt int64
			rtt, data, err = msgp.ReadInt64Bytes(data)
			srv.RTT = time.Duration(rtt)
		case "tags":
			var count uint32
			count, data, err = msgp.ReadMapHeaderBytes(data)
			if err != nil {
				break
			}
			if count > 0 {
				srv.Tags = make(map[string]string, count)
			}
			for j := uint32(0); j < count; j++ {
				var k, v string
				k, data, err = msgp.ReadStringBytes(data)
				if err != nil {
					break
				}
				v, data, err = msgp.ReadStringBytes(data)
				if err != nil {
					break
				}
				srv.Tags[k] = v
			}
		case "updated":
			srv.LastUpdated, data, err = msgp.ReadTimeBytes(data)
		default:
			data, err = msgp.Skip(data)
		}
		if err != nil {
			return srv, data, fmt.Errorf("topology: invalid server field %q: %w", key, err)
		}
	}

	return srv, data, nil
}
