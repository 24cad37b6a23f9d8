/*
Package pack reads and writes the binary story pack format.

A pack directory holds four index files:

	ni  512-byte header followed by fixed-size node records (plain)
	li  link table: u32 stage indices, the flattened option lists (protected)
	ri  image asset names, 12 bytes each (protected)
	si  sound asset names, 12 bytes each (protected)

and the asset folders rf/ (images) and sf/ (sounds), whose files are protected too.
Protected means the first 512 bytes are enciphered with package cipher.

Decode turns a pack into a domain.Story. Negative indices, the on-disk encoding of
"absent", never leave this package.
*/
package pack
