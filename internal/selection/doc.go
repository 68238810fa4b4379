// Package selection picks backend-offloadable node subsets and keeps two
// independently produced selections consistent: the subset the backend's
// parser accepted, and the auxiliary-node subset chosen for constant-folding
// style optimization. It also re-admits auxiliary nodes the backend parser
// filtered out, without ever removing a previously accepted node.
package selection
