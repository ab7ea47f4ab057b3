// Package tiling partitions the grid of base squares into tiles, each owned
// by one Taylor expansion center.
//
// Responsibilities: enumerating achievable squared diameters per parity class
// (Catalog), building the polyomino inscribed in a circle of given diameter
// (PolyominoPattern), resolving which grid cells a lattice point's polyomino
// covers (Resolver, CoverageTable), tracking cell ownership (Field), and the
// three-phase greedy selection of centers (Engine).
//
// The engine is single-threaded and deterministic: identical inputs produce
// identical center lists and cover maps. Scan order decides ties.
package tiling
