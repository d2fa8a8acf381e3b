package gpu

import "fmt"

// Pass parameters shared by all morphology shaders. The a_* and b_* triples
// are overloaded per shader: dense passes use them for the structuring
// element extent and anchor, the line pass for the step vector and
// (length, anchor) pair.
const paramsWGSL = `
struct Params {
	pad_x: i32, pad_y: i32, pad_z: i32,
	core_x: i32, core_y: i32, core_z: i32,
	off_x: i32, off_y: i32, off_z: i32,
	a_x: i32, a_y: i32, a_z: i32,
	b_x: i32, b_y: i32, b_z: i32,
	op: i32,
}
`

// flatShader scans a dense boolean structuring element. op 0 dilates with
// max, op 1 erodes with min; out-of-tile neighbors are skipped, so a voxel
// with no in-bounds support keeps the neutral extreme.
func flatShader(l lane, wgX, wgY, wgZ uint32) string {
	s := l.wgsl()
	return fmt.Sprintf(`
%s
@group(0) @binding(0) var<storage, read> vol : array<%s>;
@group(0) @binding(1) var<storage, read_write> res : array<%s>;
@group(0) @binding(2) var<storage, read> strel : array<u32>;
@group(0) @binding(3) var<uniform> P : Params;

@compute @workgroup_size(%d, %d, %d)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
	let x = i32(gid.x);
	let y = i32(gid.y);
	let z = i32(gid.z);
	if (x >= P.core_x || y >= P.core_y || z >= P.core_z) {
		return;
	}
	let px = x + P.off_x;
	let py = y + P.off_y;
	let pz = z + P.off_z;

	var acc: %s = %s;
	if (P.op == 0) {
		acc = %s;
	}
	var i: i32 = 0;
	for (var qz: i32 = 0; qz < P.a_z; qz++) {
		let nz = pz + P.b_z - qz;
		for (var qy: i32 = 0; qy < P.a_y; qy++) {
			let ny = py + P.b_y - qy;
			for (var qx: i32 = 0; qx < P.a_x; qx++) {
				let nx = px + P.b_x - qx;
				if (strel[i] != 0u &&
					nx >= 0 && nx < P.pad_x &&
					ny >= 0 && ny < P.pad_y &&
					nz >= 0 && nz < P.pad_z) {
					let v = vol[nx + P.pad_x * (ny + P.pad_y * nz)];
					if (P.op == 0) {
						acc = max(acc, v);
					} else {
						acc = min(acc, v);
					}
				}
				i++;
			}
		}
	}
	res[x + P.core_x * (y + P.core_y * z)] = acc;
}
`, paramsWGSL, s, s, wgX, wgY, wgZ, s, l.neutralHi(), l.neutralLo())
}

// genShader scans a dense grayscale structuring element of the same element
// type as the volume: max of sums for dilation, min of differences for
// erosion.
func genShader(l lane, wgX, wgY, wgZ uint32) string {
	s := l.wgsl()
	return fmt.Sprintf(`
%s
@group(0) @binding(0) var<storage, read> vol : array<%s>;
@group(0) @binding(1) var<storage, read_write> res : array<%s>;
@group(0) @binding(2) var<storage, read> strel : array<%s>;
@group(0) @binding(3) var<uniform> P : Params;

@compute @workgroup_size(%d, %d, %d)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
	let x = i32(gid.x);
	let y = i32(gid.y);
	let z = i32(gid.z);
	if (x >= P.core_x || y >= P.core_y || z >= P.core_z) {
		return;
	}
	let px = x + P.off_x;
	let py = y + P.off_y;
	let pz = z + P.off_z;

	var acc: %s = %s;
	if (P.op == 0) {
		acc = %s;
	}
	var i: i32 = 0;
	for (var qz: i32 = 0; qz < P.a_z; qz++) {
		let nz = pz + P.b_z - qz;
		for (var qy: i32 = 0; qy < P.a_y; qy++) {
			let ny = py + P.b_y - qy;
			for (var qx: i32 = 0; qx < P.a_x; qx++) {
				let nx = px + P.b_x - qx;
				if (nx >= 0 && nx < P.pad_x &&
					ny >= 0 && ny < P.pad_y &&
					nz >= 0 && nz < P.pad_z) {
					let v = vol[nx + P.pad_x * (ny + P.pad_y * nz)];
					if (P.op == 0) {
						acc = max(acc, v + strel[i]);
					} else {
						acc = min(acc, v - strel[i]);
					}
				}
				i++;
			}
		}
	}
	res[x + P.core_x * (y + P.core_y * z)] = acc;
}
`, paramsWGSL, s, s, s, wgX, wgY, wgZ, s, l.neutralHi(), l.neutralLo())
}

// lineShader scans one flat line segment: a_* is the step vector, b_x the
// sample count, b_y the anchor index.
func lineShader(l lane, wgX, wgY, wgZ uint32) string {
	s := l.wgsl()
	return fmt.Sprintf(`
%s
@group(0) @binding(0) var<storage, read> vol : array<%s>;
@group(0) @binding(1) var<storage, read_write> res : array<%s>;
@group(0) @binding(2) var<uniform> P : Params;

@compute @workgroup_size(%d, %d, %d)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
	let x = i32(gid.x);
	let y = i32(gid.y);
	let z = i32(gid.z);
	if (x >= P.core_x || y >= P.core_y || z >= P.core_z) {
		return;
	}
	let px = x + P.off_x;
	let py = y + P.off_y;
	let pz = z + P.off_z;

	var acc: %s = %s;
	if (P.op == 0) {
		acc = %s;
	}
	for (var t: i32 = 0; t < P.b_x; t++) {
		let nx = px + (P.b_y - t) * P.a_x;
		let ny = py + (P.b_y - t) * P.a_y;
		let nz = pz + (P.b_y - t) * P.a_z;
		if (nx >= 0 && nx < P.pad_x &&
			ny >= 0 && ny < P.pad_y &&
			nz >= 0 && nz < P.pad_z) {
			let v = vol[nx + P.pad_x * (ny + P.pad_y * nz)];
			if (P.op == 0) {
				acc = max(acc, v);
			} else {
				acc = min(acc, v);
			}
		}
	}
	res[x + P.core_x * (y + P.core_y * z)] = acc;
}
`, paramsWGSL, s, s, wgX, wgY, wgZ, s, l.neutralHi(), l.neutralLo())
}
