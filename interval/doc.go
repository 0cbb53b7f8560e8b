/*Package interval contains the coordinate type shared by the read and variant
  streams, a low-overhead whitespace tokenizer for line-oriented text records,
  and TargetSet, an interval-union loaded from a BED file.
  (Overlapping BED intervals are merged, not tracked separately.)
  It assumes every position fits in a PosType, which is currently defined as
  int32 since that's what BAM and Maq map files are limited to.
*/
package interval
