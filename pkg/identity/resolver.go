/*
 * Copyright 2026 the zurich-pool-exporter authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package identity maps raw upstream pool identifiers to the canonical
// identities the exporter tracks.
package identity

import "github.com/alakae/zurich-pool-exporter/pkg/models"

// Resolver reconciles heterogeneous upstream identifiers (canonical uid,
// alternate uid, display name) against the configured pool set. Lookup
// tables are read-only after construction and safe for concurrent readers.
type Resolver struct {
	uids     map[string]struct{}
	names    map[string]struct{}
	altToUID map[string]string
}

// NewResolver builds a resolver from the configured pool list.
func NewResolver(pools []models.PoolConfig) *Resolver {
	r := &Resolver{
		uids:     make(map[string]struct{}, len(pools)),
		names:    make(map[string]struct{}, len(pools)),
		altToUID: make(map[string]string),
	}

	for _, pool := range pools {
		r.uids[pool.UID] = struct{}{}
		r.names[pool.Name] = struct{}{}

		if pool.AltUID != "" {
			r.altToUID[pool.AltUID] = pool.UID
		}
	}

	return r
}

// ResolveOccupancy returns the canonical uid for a raw occupancy feed
// identifier. It succeeds only for a non-empty identifier that is itself a
// configured canonical uid.
func (r *Resolver) ResolveOccupancy(rawUID string) (string, bool) {
	if rawUID == "" {
		return "", false
	}

	if _, ok := r.uids[rawUID]; !ok {
		return "", false
	}

	return rawUID, true
}

// ResolveTemperature returns the canonical uid for a temperature feed entry.
// The raw identifier is first mapped through the alternate-uid table when
// present. The lookup succeeds when the mapped uid is configured, or when the
// feed title matches a configured display name. The title fallback covers
// feed entries that carry an id outside the configured set but a known name.
func (r *Resolver) ResolveTemperature(rawIDOrAlt, rawTitle string) (string, bool) {
	if rawIDOrAlt == "" {
		return "", false
	}

	uid := rawIDOrAlt
	if mapped, ok := r.altToUID[rawIDOrAlt]; ok {
		uid = mapped
	}

	if _, ok := r.uids[uid]; ok {
		return uid, true
	}

	if _, ok := r.names[rawTitle]; ok {
		return uid, true
	}

	return "", false
}
