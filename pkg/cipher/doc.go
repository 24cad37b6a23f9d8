/*
Package cipher implements the block cipher protecting story pack files.

The device uses an XXTEA variant with a fixed 128-bit key and a non-standard round
count of 1+52/n. Only the first 512 bytes of a protected blob are enciphered; the
remainder is stored in plain form.

Decrypt and Encrypt operate on whole blobs. Reader and File expose a protected file as
a plain io.ReadSeeker so assets can be handed to decoders without buffering them.
*/
package cipher
