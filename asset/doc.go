// Package asset loads viewer assets: GLB/glTF model files and Radiance
// HDR equirectangular environment maps.
//
// Assets are addressed through the Source interface. URLSource fetches
// over HTTP with a caller-supplied context; FileSource reads from disk;
// BlobSource wraps bytes already in memory (a user-uploaded file) and
// can be revoked once the load that consumed it completes.
//
// Loading a model produces a scene.Node tree. The loader carries over
// the glTF node hierarchy and per-node TRS transforms and records a
// bounding sphere per mesh node for picking; vertex data itself is left
// to the render boundary.
package asset
