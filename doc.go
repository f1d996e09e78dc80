/*
Package jsbridge generates the JavaScript marshalling layer between an
external JSON-shaped representation and a typed internal runtime, from
a model of algebraic datatype definitions and function signatures.

# Architecture pipeline (for developers)

Each element in the pipeline has distinct sub-packages that do a
specific part. These are then "glued" together in the [Generate]
function.
 1. [config] and [loader]: Parse the user-supplied config and model
    files into the [ir] model
 2. [resolver]: Compute the generation set, the closure of datatype
    definitions reachable from the function surface
 3. [converter]: Synthesize per-descriptor conversion expressions
 4. [emitter]: Render the converter functions, the wrapper API surface
    and, on the typed profile, type declarations
*/
package jsbridge
